package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/engine"
	"github.com/greenevillebjj/matdesk/internal/models"
	svc "github.com/greenevillebjj/matdesk/internal/services"
)

type checkinVM struct {
	Title string
	Phone string
	Flash *Flash
}

// GET /checkin — kiosk landing: phone entry, with the QR scanner
// posting the decoded member id straight to /checkin/{id}.
func CheckinForm(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("checkin.tmpl"))
		_ = view.ExecuteTemplate(w, "checkin.tmpl", checkinVM{
			Title: "Check In",
			Phone: strings.TrimSpace(r.URL.Query().Get("phone")),
			Flash: MakeFlash(r, "", ""),
		})
	}
}

// POST /checkin — resolve a member by phone and continue to the
// check-in screen. A QR scan skips this step entirely: the code
// payload is the raw member id.
func CheckinLookup(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	phone := strings.TrimSpace(r.FormValue("phone"))
	if svc.NormPhone(phone) == "" {
		http.Redirect(w, r, "/checkin?error=invalid_phone", http.StatusSeeOther)
		return
	}
	user, err := svc.FindUserByPhone(db.Conn(), phone)
	if err != nil {
		http.Redirect(w, r, "/checkin?error=no_match&phone="+url.QueryEscape(phone), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/checkin/"+user.ID, http.StatusSeeOther)
}

type checkinUserVM struct {
	Title        string
	User         *models.User
	Rank         belts.Rank
	CheckedIn    bool   // this visit created a record
	Blocked      bool   // still inside the cool-down window
	NextEligible string // when they may check in again
	ThisMonth    int
	LastMonth    int
	AtRank       int
	Flash        *Flash
}

// GET /checkin/{userID} — the kiosk result screen. Eligible members
// are checked in on arrival; blocked ones just see their counters and
// the next eligible time. The engine enforces the window either way.
func CheckinUser(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")

		var user models.User
		if err := db.Conn().First(&user, "id = ?", userID).Error; err != nil {
			http.Redirect(w, r, "/checkin?error=no_match", http.StatusSeeOther)
			return
		}

		eng := engine.New(db.Conn())

		_, created, err := eng.RecordCheckin(userID)
		if errors.Is(err, engine.ErrNotFound) {
			http.Redirect(w, r, "/checkin?error=no_match", http.StatusSeeOther)
			return
		}
		if err != nil {
			http.Error(w, "db error (checkin)", http.StatusInternalServerError)
			return
		}

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
		nextAt, err := eng.NextEligibleAt(userID)
		if err != nil {
			http.Error(w, "db error (eligibility)", http.StatusInternalServerError)
			return
		}

		vm := checkinUserVM{
			Title:        "Welcome, " + user.FirstName,
			User:         &user,
			Rank:         rank,
			CheckedIn:    created,
			Blocked:      !created,
			NextEligible: fmtClock(nextAt),
			ThisMonth:    len(agg.ThisMonth),
			LastMonth:    len(agg.LastMonth),
			AtRank:       len(agg.AtRank),
		}
		if created {
			vm.Flash = &Flash{Kind: "ok", Text: okText["checked_in"]}
		} else {
			vm.Flash = &Flash{Kind: "error", Text: errText["already_checked"]}
		}

		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("checkin_user.tmpl"))
		_ = view.ExecuteTemplate(w, "checkin_user.tmpl", vm)
	}
}
