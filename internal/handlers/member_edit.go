package handlers

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/engine"
	"github.com/greenevillebjj/matdesk/internal/models"
	svc "github.com/greenevillebjj/matdesk/internal/services"
)

type memberEditVM struct {
	Title       string
	User        *models.User
	BirthdayISO string
	Rank        belts.Rank
	RankStr     string
	Adult       bool
	Belts       []belts.Belt
	Promotions  []models.Promotion
	Checkins    []models.Checkin
	Contacts    []models.EmergencyContact
	ThisMonth   int
	LastMonth   int
	AtRank      int
	Flash       *Flash
}

// GET /members/{userID}/edit — the member detail page: profile form,
// promotion ledger, check-in history, emergency contacts, QR code.
func MemberEditForm(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		var user models.User
		if err := db.Conn().First(&user, "id = ?", userID).Error; err != nil {
			http.Redirect(w, r, "/members?error=not_found", http.StatusSeeOther)
			return
		}

		eng := engine.New(db.Conn())
		rank, err := eng.CurrentRank(userID)
		if err != nil {
			http.Error(w, "db error (rank)", http.StatusInternalServerError)
			return
		}
		agg, err := eng.AggregateAttendance(userID, rank)
		if err != nil {
			http.Error(w, "db error (attendance)", http.StatusInternalServerError)
			return
		}

		var promos []models.Promotion
		_ = db.Conn().Where("user_id = ?", userID).
			Order("created_at DESC, rowid DESC").
			Find(&promos).Error

		var checkins []models.Checkin
		_ = db.Conn().Where("user_id = ?", userID).
			Order("checked_at DESC").
			Limit(50).
			Find(&checkins).Error

		var contacts []models.EmergencyContact
		_ = db.Conn().Where("user_id = ?", userID).
			Order("is_primary_contact DESC, name ASC").
			Find(&contacts).Error

		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("member_edit.tmpl"))
		_ = view.ExecuteTemplate(w, "member_edit.tmpl", memberEditVM{
			Title:       user.FullName(),
			User:        &user,
			BirthdayISO: fmtISODate(user.Birthday),
			Rank:        rank,
			RankStr:     rank.Display(),
			Adult:       belts.IsAdult(user.Birthday, time.Now()),
			Belts:       belts.SequenceFor(user.Birthday, time.Now()),
			Promotions:  promos,
			Checkins:    checkins,
			Contacts:    contacts,
			ThisMonth:   len(agg.ThisMonth),
			LastMonth:   len(agg.LastMonth),
			AtRank:      len(agg.AtRank),
			Flash:       MakeFlash(r, "", ""),
		})
	}
}

// POST /members/{userID} — update profile fields. The id itself is
// immutable.
func MemberUpdate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	_ = r.ParseForm()

	var user models.User
	if err := db.Conn().First(&user, "id = ?", userID).Error; err != nil {
		http.Redirect(w, r, "/members?error=not_found", http.StatusSeeOther)
		return
	}

	first := strings.TrimSpace(r.FormValue("first_name"))
	last := strings.TrimSpace(r.FormValue("last_name"))
	phone := svc.NormPhone(r.FormValue("phone"))
	if first == "" || last == "" || phone == "" {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=missing", http.StatusSeeOther)
		return
	}
	birthday, ok := parseDateTime(strings.TrimSpace(r.FormValue("birthday")))
	if !ok {
		http.Redirect(w, r, "/members/"+userID+"/edit?error=invalid_date", http.StatusSeeOther)
		return
	}

	user.FirstName = first
	user.LastName = last
	user.Gender = strings.TrimSpace(r.FormValue("gender"))
	user.Birthday = birthday
	user.Email = strings.TrimSpace(r.FormValue("email"))
	user.Phone = phone
	user.HasSignedWaiver = r.FormValue("has_signed_waiver") == "on"

	if err := db.Conn().Save(&user).Error; err != nil {
		http.Error(w, "db error (update member)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members/"+userID+"/edit?ok=saved", http.StatusSeeOther)
}

// POST /members/{userID}/delete — remove the member and every
// dependent row (check-ins, promotions, emergency contacts) in one
// transaction. Deleting an already-missing member is treated as
// satisfied.
func MemberDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Checkin{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Promotion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.EmergencyContact{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&models.User{}).Error
	})
	if err != nil {
		http.Error(w, "db error (delete member)", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/members?ok=member_deleted", http.StatusSeeOther)
}
