package handlers

import (
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/db"
	"github.com/greenevillebjj/matdesk/internal/models"
)

type memberRow struct {
	ID      string
	Name    string
	Phone   string
	Age     int
	Adult   bool
	Rank    belts.Rank
	Waiver  bool
	RankStr string
}

type membersVM struct {
	Title string
	Q     string
	Seg   string // all | adult | child
	Rows  []memberRow
	Total int
	Flash *Flash
}

// GET /members — admin member list with search, adult/child
// segmentation and belt-order sorting.
func MembersList(t *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		seg := r.URL.Query().Get("seg")
		if seg != "adult" && seg != "child" {
			seg = "all"
		}

		listQ := db.Conn().Model(&models.User{})
		if q != "" {
			like := "%" + strings.ToLower(q) + "%"
			digits := q
			for _, ch := range []string{" ", "-", "(", ")", "+"} {
				digits = strings.ReplaceAll(digits, ch, "")
			}
			listQ = listQ.Where(`
				LOWER(first_name) LIKE ? OR
				LOWER(last_name)  LIKE ? OR
				LOWER(email)      LIKE ? OR
				REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(phone,'+',''),' ',''),'-',''),'(',''),')','') LIKE ?`,
				like, like, like, "%"+digits+"%")
		}

		var users []models.User
		if err := listQ.Order("LOWER(last_name) asc, LOWER(first_name) asc").Find(&users).Error; err != nil {
			http.Error(w, "db error (list)", http.StatusInternalServerError)
			return
		}

		ranks := latestRanks(users)

		now := time.Now()
		rows := make([]memberRow, 0, len(users))
		for _, u := range users {
			adult := belts.IsAdult(u.Birthday, now)
			if seg == "adult" && !adult {
				continue
			}
			if seg == "child" && adult {
				continue
			}
			rank := ranks[u.ID]
			rows = append(rows, memberRow{
				ID:      u.ID,
				Name:    u.FullName(),
				Phone:   u.Phone,
				Age:     belts.Age(u.Birthday, now),
				Adult:   adult,
				Rank:    rank,
				RankStr: rank.Display(),
				Waiver:  u.HasSignedWaiver,
			})
		}

		// Highest rank first, then stripes, then name.
		sort.SliceStable(rows, func(i, j int) bool {
			oi, oj := belts.Order(rows[i].Rank.Belt), belts.Order(rows[j].Rank.Belt)
			if oi != oj {
				return oi > oj
			}
			if rows[i].Rank.Stripes != rows[j].Rank.Stripes {
				return rows[i].Rank.Stripes > rows[j].Rank.Stripes
			}
			return rows[i].Name < rows[j].Name
		})

		view, _ := t.Clone()
		_, _ = view.ParseFiles(pagePath("members.tmpl"))
		_ = view.ExecuteTemplate(w, "members.tmpl", membersVM{
			Title: "Members",
			Q:     q,
			Seg:   seg,
			Rows:  rows,
			Total: len(rows),
			Flash: MakeFlash(r, "", ""),
		})
	}
}

// latestRanks resolves current rank for a batch of users in one query.
// Promotions are scanned oldest-to-newest so the last write per user
// wins, matching the engine's most-recent-promotion rule; users with
// no ledger entries fall back to the default rank.
func latestRanks(users []models.User) map[string]belts.Rank {
	out := make(map[string]belts.Rank, len(users))
	if len(users) == 0 {
		return out
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		out[u.ID] = belts.DefaultRank
		ids = append(ids, u.ID)
	}
	var promos []models.Promotion
	if err := db.Conn().
		Where("user_id IN ?", ids).
		Order("created_at ASC, rowid ASC").
		Find(&promos).Error; err != nil {
		return out
	}
	for _, p := range promos {
		out[p.UserID] = belts.Rank{Belt: p.Belt, Stripes: p.Stripes}
	}
	return out
}
