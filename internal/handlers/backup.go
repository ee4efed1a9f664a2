package handlers

import (
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/greenevillebjj/matdesk/internal/backup"
	"github.com/greenevillebjj/matdesk/internal/db"
)

type backupVM struct {
	Title string
	Flash *Flash
}

// GET /backup
func BackupPage(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("backup.tmpl"))
		_ = view.ExecuteTemplate(w, "backup.tmpl", backupVM{
			Title: "Backup & Restore",
			Flash: MakeFlash(r, "", ""),
		})
	}
}

// GET /backup/export — download the full dataset as one JSON file.
func BackupExport(w http.ResponseWriter, r *http.Request) {
	dump, err := backup.Export(db.Conn())
	if err != nil {
		http.Error(w, "db error (export)", http.StatusInternalServerError)
		return
	}

	name := "matdesk_backup_" + time.Now().Local().Format("2006-01-02") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := backup.Write(w, dump); err != nil {
		zap.S().Errorw("backup export write", "err", err)
	}
}

// POST /backup/import — destructive restore from an uploaded dump.
// All-or-nothing: a bad file leaves the store untouched.
func BackupImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Redirect(w, r, "/backup?error=invalid_backup", http.StatusSeeOther)
		return
	}
	file, _, err := r.FormFile("backup_file")
	if err != nil {
		http.Redirect(w, r, "/backup?error=invalid_backup", http.StatusSeeOther)
		return
	}
	defer file.Close()

	dump, err := backup.Read(file)
	if err != nil {
		http.Redirect(w, r, "/backup?error=invalid_backup", http.StatusSeeOther)
		return
	}

	if err := backup.Import(db.Conn(), dump); err != nil {
		zap.S().Errorw("backup restore", "err", err)
		http.Redirect(w, r, "/backup?error=restore_failed", http.StatusSeeOther)
		return
	}
	zap.S().Infow("backup restored",
		"users", len(dump.Users),
		"checkins", len(dump.Checkins),
		"promotions", len(dump.Promotions),
		"contacts", len(dump.EmergencyContacts))
	http.Redirect(w, r, "/members?ok=restored", http.StatusSeeOther)
}
