package handlers

import (
	"net/http"
	"strings"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

var okText = map[string]string{
	"saved":           "Saved.",
	"member_created":  "Member created.",
	"member_deleted":  "Member and their history deleted.",
	"checked_in":      "Checked in. Have a great class!",
	"checkin_saved":   "Check-in saved.",
	"checkin_deleted": "Check-in deleted.",
	"promoted":        "Promotion recorded.",
	"promo_deleted":   "Promotion deleted.",
	"contact_saved":   "Emergency contact saved.",
	"contact_deleted": "Emergency contact deleted.",
	"restored":        "Backup restored.",
}

var errText = map[string]string{
	"missing":         "First name, last name and phone are required.",
	"no_match":        "No matching member.",
	"not_found":       "Member not found.",
	"invalid_phone":   "That doesn't look like a phone number.",
	"invalid_date":    "Invalid date.",
	"invalid_rank":    "Invalid belt or stripe count.",
	"invalid_backup":  "That file is not a valid backup.",
	"restore_failed":  "Restore failed; existing data was left untouched.",
	"already_checked": "Already checked in within the last 12 hours.",
}

// MakeFlash reads query params and/or explicit strings to build a Flash.
func MakeFlash(r *http.Request, errStr, msgStr string) *Flash {
	q := r.URL.Query()

	errRaw := strings.TrimSpace(q.Get("error"))
	okRaw := strings.TrimSpace(q.Get("ok"))

	if errRaw != "" {
		key := strings.ToLower(errRaw)
		if t, ok := errText[key]; ok {
			return &Flash{Kind: "error", Text: t}
		}
		return &Flash{Kind: "error", Text: errRaw}
	}
	if okRaw != "" {
		key := strings.ToLower(okRaw)
		if t, ok := okText[key]; ok {
			return &Flash{Kind: "ok", Text: t}
		}
		return &Flash{Kind: "ok", Text: okRaw}
	}

	if errStr != "" {
		return &Flash{Kind: "error", Text: errStr}
	}
	if msgStr != "" {
		return &Flash{Kind: "ok", Text: msgStr}
	}
	return nil
}
