package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/engine"
	"github.com/greenevillebjj/matdesk/internal/models"
)

// POST /members/{userID}/checkins — manual entry. Goes through the
// engine's manual path: no cool-down check, caller supplies the rank
// snapshot and the (possibly backdated) time.
func CheckinManualCreate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	_ = r.ParseForm()

	belt := belts.Belt(r.FormValue("belt"))
	stripes, _ := strconv.Atoi(r.FormValue("stripes"))
	checkedAt, ok := parseDateTime(strings.TrimSpace(r.FormValue("checked_at")))
	if !ok {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_date", http.StatusSeeOther)
		return
	}

	eng := engine.New(db.Conn())
	_, err := eng.RecordManualCheckin(userID, belt, stripes, checkedAt)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		http.Redirect(w, r, "/members?error=not_found", http.StatusSeeOther)
	case errors.Is(err, engine.ErrValidation):
		http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_rank", http.StatusSeeOther)
	case err != nil:
		http.Error(w, "db error (manual checkin)", http.StatusInternalServerError)
	default:
		http.Redirect(w, r, "/members/"+userID+"/edit?ok=checkin_saved", http.StatusSeeOther)
	}
}

// POST /members/{userID}/checkins/{checkinID} — administrative
// correction of a historical entry's rank snapshot or time.
func CheckinUpdate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	checkinID := chi.URLParam(r, "checkinID")
	_ = r.ParseForm()

	var c models.Checkin
	if err := db.Conn().
		Where("id = ? AND user_id = ?", checkinID, userID).
		First(&c).Error; err != nil {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=not_found", http.StatusSeeOther)
		return
	}

	if raw := r.FormValue("belt"); raw != "" {
		belt := belts.Belt(raw)
		if !belts.Valid(belt) {
			http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_rank", http.StatusSeeOther)
			return
		}
		c.Belt = belt
	}
	if raw := r.FormValue("stripes"); raw != "" {
		stripes, err := strconv.Atoi(raw)
		if err != nil || !belts.ValidStripes(stripes) {
			http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_rank", http.StatusSeeOther)
			return
		}
		c.Stripes = stripes
	}
	if raw := strings.TrimSpace(r.FormValue("checked_at")); raw != "" {
		t, ok := parseDateTime(raw)
		if !ok {
			http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_date", http.StatusSeeOther)
			return
		}
		c.CheckedAt = t
	}

	if err := db.Conn().Save(&c).Error; err != nil {
		http.Error(w, "db error (checkin update)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=checkin_saved", http.StatusSeeOther)
}

// POST /members/{userID}/checkins/{checkinID}/delete — idempotent.
func CheckinDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	checkinID := chi.URLParam(r, "checkinID")

	if err := db.Conn().
		Where("id = ? AND user_id = ?", checkinID, userID).
		Delete(&models.Checkin{}).Error; err != nil {
		http.Error(w, "db error (checkin delete)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=checkin_deleted", http.StatusSeeOther)
}
