package web

import (
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/handlers"
)

func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	tmpl := mustParseTemplates(handlers.TemplateDir())

	r.Get("/", handlers.Home(tmpl))
	r.Get("/healthz", handlers.Health)

	// --- Kiosk check-in ---
	r.Get("/checkin", handlers.CheckinForm(tmpl))
	r.Post("/checkin", handlers.CheckinLookup)
	r.Get("/checkin/{userID}", handlers.CheckinUser(tmpl))

	// --- Member management ---
	r.Get("/members", handlers.MembersList(tmpl))
	r.Get("/members/new", handlers.MemberNewForm(tmpl))
	r.Post("/members", handlers.MemberCreate)
	r.Get("/members/{userID}/edit", handlers.MemberEditForm(tmpl))
	r.Post("/members/{userID}", handlers.MemberUpdate)
	r.Post("/members/{userID}/delete", handlers.MemberDelete)
	r.Get("/members/{userID}/qr.png", handlers.QR)

	// Promotions (rank ledger)
	r.Post("/members/{userID}/promotions", handlers.PromotionCreate)
	r.Post("/members/{userID}/promotions/{promoID}/delete", handlers.PromotionDelete)

	// Check-in corrections / backfill
	r.Post("/members/{userID}/checkins", handlers.CheckinManualCreate)
	r.Post("/members/{userID}/checkins/{checkinID}", handlers.CheckinUpdate)
	r.Post("/members/{userID}/checkins/{checkinID}/delete", handlers.CheckinDelete)

	// Emergency contacts
	r.Post("/members/{userID}/contacts", handlers.ContactCreate)
	r.Post("/members/{userID}/contacts/{contactID}", handlers.ContactUpdate)
	r.Post("/members/{userID}/contacts/{contactID}/delete", handlers.ContactDelete)

	// Attendance log
	r.Get("/attendance", handlers.Attendance(tmpl))
	r.Get("/attendance.csv", handlers.AttendanceCSV)

	// Backup / restore
	r.Get("/backup", handlers.BackupPage(tmpl))
	r.Get("/backup/export", handlers.BackupExport)
	r.Post("/backup/import", handlers.BackupImport)

	return r
}

func mustParseTemplates(baseDir string) *template.Template {
	funcs := template.FuncMap{
		"year":        func() string { return time.Now().Format("2006") },
		"fmtDate":     func(t time.Time) string { return t.Local().Format("Mon, 02 Jan 2006") },
		"fmtISODate":  func(t time.Time) string { return t.Local().Format("2006-01-02") },
		"fmtDateTime": func(t time.Time) string { return t.Local().Format("Mon, 02 Jan 2006 15:04") },
		"fmtClock":    func(t time.Time) string { return t.Local().Format("1/2/2006 3:04 PM") },
		"beltName":    func(b belts.Belt) string { return b.Display() },
	}

	p := template.New("").Funcs(funcs)
	p = template.Must(p.ParseGlob(filepath.Join(baseDir, "layouts", "*.tmpl")))
	p = template.Must(p.ParseGlob(filepath.Join(baseDir, "partials", "*.tmpl")))
	return p
}
