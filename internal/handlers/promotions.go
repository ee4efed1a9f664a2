package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/models"
)

// POST /members/{userID}/promotions — append to the rank ledger. The
// new row becomes the member's current rank; past check-ins keep their
// snapshots.
func PromotionCreate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	_ = r.ParseForm()

	var user models.User
	if err := db.Conn().First(&user, "id = ?", userID).Error; err != nil {
		http.Redirect(w, r, "/members?error=not_found", http.StatusSeeOther)
		return
	}

	belt := belts.Belt(r.FormValue("belt"))
	stripes, _ := strconv.Atoi(r.FormValue("stripes"))
	if !belts.Valid(belt) || !belts.ValidStripes(stripes) {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_rank", http.StatusSeeOther)
		return
	}

	promotedAt := time.Now()
	if raw := strings.TrimSpace(r.FormValue("promoted_at")); raw != "" {
		t, ok := parseDateTime(raw)
		if !ok {
			http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_date", http.StatusSeeOther)
			return
		}
		promotedAt = t
	}

	promo := models.Promotion{
		UserID:     userID,
		Belt:       belt,
		Stripes:    stripes,
		PromotedAt: promotedAt,
	}
	if err := db.Conn().Create(&promo).Error; err != nil {
		http.Error(w, "db error (promotion)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=promoted", http.StatusSeeOther)
}

// POST /members/{userID}/promotions/{promoID}/delete
// Deleting a missing row is already satisfied; no error.
func PromotionDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	promoID := chi.URLParam(r, "promoID")

	if err := db.Conn().
		Where("id = ? AND user_id = ?", promoID, userID).
		Delete(&models.Promotion{}).Error; err != nil {
		http.Error(w, "db error (promotion delete)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=promo_deleted", http.StatusSeeOther)
}
