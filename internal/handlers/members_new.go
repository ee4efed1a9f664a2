package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/models"
	svc "github.com/greenevillebjj/matdesk/internal/services"
)

type memberFormVM struct {
	Title string
	Belts []belts.Belt
	Flash *Flash
}

// GET /members/new
func MemberNewForm(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("member_new.tmpl"))
		_ = view.ExecuteTemplate(w, "member_new.tmpl", memberFormVM{
			Title: "New Member",
			Belts: belts.DisplayOrder,
			Flash: MakeFlash(r, "", ""),
		})
	}
}

// POST /members — create the member and their starting promotion
// together, so the ledger is never empty in steady state.
func MemberCreate(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	first := strings.TrimSpace(r.FormValue("first_name"))
	last := strings.TrimSpace(r.FormValue("last_name"))
	phone := svc.NormPhone(r.FormValue("phone"))
	if first == "" || last == "" || phone == "" {
		http.Redirect(w, r, "/members/new?error=missing", http.StatusSeeOther)
		return
	}

	birthday, ok := parseDateTime(strings.TrimSpace(r.FormValue("birthday")))
	if !ok {
		http.Redirect(w, r, "/members/new?error=invalid_date", http.StatusSeeOther)
		return
	}

	belt := belts.Belt(r.FormValue("belt"))
	stripes, _ := strconv.Atoi(r.FormValue("stripes"))
	if belt == "" {
		belt = belts.White
	}
	if !belts.Valid(belt) || !belts.ValidStripes(stripes) {
		http.Redirect(w, r, "/members/new?error=invalid_rank", http.StatusSeeOther)
		return
	}

	user := models.User{
		FirstName:       first,
		LastName:        last,
		Gender:          strings.TrimSpace(r.FormValue("gender")),
		Birthday:        birthday,
		Email:           strings.TrimSpace(r.FormValue("email")),
		Phone:           phone,
		HasSignedWaiver: r.FormValue("has_signed_waiver") == "on",
	}

	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		promo := models.Promotion{
			UserID:     user.ID,
			Belt:       belt,
			Stripes:    stripes,
			PromotedAt: time.Now(),
		}
		return tx.Create(&promo).Error
	})
	if err != nil {
		http.Error(w, "db error (create member)", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/members/"+user.ID+"/edit?ok=member_created", http.StatusSeeOther)
}
