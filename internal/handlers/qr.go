package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/models"
)

// GET /members/{userID}/qr.png
// The payload is the raw member id; the kiosk scanner treats whatever
// it decodes as an id lookup, nothing more.
func QR(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.NotFound(w, r)
		return
	}
	var user models.User
	if err := db.Conn().First(&user, "id = ?", userID).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(user.ID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
