package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/models"
	svc "github.com/greenevillebjj/matdesk/internal/services"
)

// POST /members/{userID}/contacts — add an emergency contact. Several
// contacts may be flagged primary; the data layer doesn't police it.
func ContactCreate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	_ = r.ParseForm()

	var user models.User
	if err := db.Conn().First(&user, "id = ?", userID).Error; err != nil {
		http.Redirect(w, r, "/members?error=not_found", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=missing", http.StatusSeeOther)
		return
	}

	contact := models.EmergencyContact{
		UserID:             userID,
		Name:               name,
		Email:              strings.TrimSpace(r.FormValue("email")),
		Phone:              svc.FormatPhone(r.FormValue("phone")),
		Relationship:       strings.TrimSpace(r.FormValue("relationship")),
		IsParentOrGuardian: r.FormValue("is_parent_or_guardian") == "on",
		IsPrimaryContact:   r.FormValue("is_primary_contact") == "on",
	}
	if err := db.Conn().Create(&contact).Error; err != nil {
		http.Error(w, "db error (contact)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=contact_saved", http.StatusSeeOther)
}

// POST /members/{userID}/contacts/{contactID}
func ContactUpdate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	contactID := chi.URLParam(r, "contactID")
	_ = r.ParseForm()

	var contact models.EmergencyContact
	if err := db.Conn().
		Where("id = ? AND user_id = ?", contactID, userID).
		First(&contact).Error; err != nil {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=not_found", http.StatusSeeOther)
		return
	}

	contact.Name = strings.TrimSpace(r.FormValue("name"))
	contact.Email = strings.TrimSpace(r.FormValue("email"))
	contact.Phone = svc.FormatPhone(r.FormValue("phone"))
	contact.Relationship = strings.TrimSpace(r.FormValue("relationship"))
	contact.IsParentOrGuardian = r.FormValue("is_parent_or_guardian") == "on"
	contact.IsPrimaryContact = r.FormValue("is_primary_contact") == "on"

	if err := db.Conn().Save(&contact).Error; err != nil {
		http.Error(w, "db error (contact update)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=contact_saved", http.StatusSeeOther)
}

// POST /members/{userID}/contacts/{contactID}/delete — idempotent.
func ContactDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	contactID := chi.URLParam(r, "contactID")

	if err := db.Conn().
		Where("id = ? AND user_id = ?", contactID, userID).
		Delete(&models.EmergencyContact{}).Error; err != nil {
		http.Error(w, "db error (contact delete)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=contact_deleted", http.StatusSeeOther)
}
