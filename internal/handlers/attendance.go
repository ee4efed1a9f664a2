package handlers

import (
	"encoding/csv"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
)

type attendanceRow struct {
	CheckinID string
	UserID    string
	Name      string
	Belt      belts.Belt
	Stripes   int
	CheckedAt time.Time
	WhenStr   string
	RankStr   string
}

type attendanceVM struct {
	Title string
	Rows  []attendanceRow
	From  string
	To    string
	Q     string
	Flash *Flash
}

type attendanceFilters struct {
	from time.Time
	to   time.Time
	q    string
}

func readAttendanceFilters(r *http.Request) (attendanceFilters, string, string) {
	fFrom := r.URL.Query().Get("from")
	fTo := r.URL.Query().Get("to")

	now := time.Now()
	from := parseDate(fFrom, now.AddDate(0, 0, -7))
	to := parseDate(fTo, now).AddDate(0, 0, 1) // inclusive end date

	if fFrom == "" {
		fFrom = from.Format("2006-01-02")
	}
	if fTo == "" {
		fTo = now.Format("2006-01-02")
	}
	return attendanceFilters{
		from: from,
		to:   to,
		q:    strings.TrimSpace(r.URL.Query().Get("q")),
	}, fFrom, fTo
}

func queryAttendance(f attendanceFilters) ([]attendanceRow, error) {
	type scanRow struct {
		CheckinID string
		UserID    string
		FirstName string
		LastName  string
		Belt      belts.Belt
		Stripes   int
		CheckedAt time.Time
	}

	q := db.Conn().Table("checkins").
		Select(`checkins.id as checkin_id, checkins.user_id, checkins.belt, checkins.stripes, checkins.checked_at,
				users.first_name, users.last_name`).
		Joins("JOIN users ON users.id = checkins.user_id").
		Where("checkins.checked_at >= ? AND checkins.checked_at < ?", f.from, f.to)

	if f.q != "" {
		like := "%" + strings.ToLower(f.q) + "%"
		q = q.Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?", like, like)
	}

	var raw []scanRow
	if err := q.Order("checkins.checked_at DESC").Scan(&raw).Error; err != nil {
		return nil, err
	}

	rows := make([]attendanceRow, 0, len(raw))
	for _, s := range raw {
		rank := belts.Rank{Belt: s.Belt, Stripes: s.Stripes}
		rows = append(rows, attendanceRow{
			CheckinID: s.CheckinID,
			UserID:    s.UserID,
			Name:      s.FirstName + " " + s.LastName,
			Belt:      s.Belt,
			Stripes:   s.Stripes,
			CheckedAt: s.CheckedAt,
			WhenStr:   fmtClock(s.CheckedAt),
			RankStr:   rank.Display(),
		})
	}
	return rows, nil
}

// GET /attendance — the recent check-in log across all members.
func Attendance(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, fromStr, toStr := readAttendanceFilters(r)
		rows, err := queryAttendance(f)
		if err != nil {
			http.Error(w, "db error (attendance)", http.StatusInternalServerError)
			return
		}

		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("attendance.tmpl"))
		_ = view.ExecuteTemplate(w, "attendance.tmpl", attendanceVM{
			Title: "Attendance",
			Rows:  rows,
			From:  fromStr,
			To:    toStr,
			Q:     f.q,
			Flash: MakeFlash(r, "", ""),
		})
	}
}

// GET /attendance.csv — same filters, spreadsheet form.
func AttendanceCSV(w http.ResponseWriter, r *http.Request) {
	f, _, _ := readAttendanceFilters(r)
	rows, err := queryAttendance(f)
	if err != nil {
		http.Error(w, "db error (attendance)", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"checked_at", "member", "belt", "stripes"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.CheckedAt.Local().Format(time.RFC3339),
			row.Name,
			string(row.Belt),
			strconv.Itoa(row.Stripes),
		})
	}
	cw.Flush()
}
