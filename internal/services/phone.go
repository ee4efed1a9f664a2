package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/models"
)

// ErrNoMatch: no member has the given phone number.
var ErrNoMatch = errors.New("no matching member")

var (
	reLetters = regexp.MustCompile(`[A-Za-z]`)
	// Only allow digits, spaces, +, -, (, )
	reAllowed = regexp.MustCompile(`^[0-9+\-\s\(\)]+$`)
)

// FormatPhone renders a US number the way the front desk types it:
// 303-555-0142. Short fragments are grouped as far as they go.
func FormatPhone(p string) string {
	d := digitsOnly(p)
	switch {
	case len(d) < 4:
		return d
	case len(d) < 7:
		return d[:3] + "-" + d[3:]
	default:
		if len(d) > 10 {
			d = d[:10]
		}
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	}
}

// NormPhone validates and canonicalizes input to the stored dashed
// format. Empty result means the input was not a phone number.
func NormPhone(p string) string {
	s := strings.TrimSpace(p)
	if s == "" {
		return ""
	}
	if reLetters.MatchString(s) {
		return ""
	}
	if !reAllowed.MatchString(s) {
		return ""
	}
	return FormatPhone(s)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FindUserByPhone tries the canonical format first, then the raw
// input, then a digits-only SQL compare so numbers stored with any
// punctuation still match.
func FindUserByPhone(gdb *gorm.DB, phone string) (*models.User, error) {
	var user models.User

	for _, cand := range []string{NormPhone(phone), strings.TrimSpace(phone)} {
		if cand == "" {
			continue
		}
		if err := gdb.Where("phone = ?", cand).First(&user).Error; err == nil {
			return &user, nil
		}
	}

	inDigits := digitsOnly(phone)
	if inDigits != "" {
		q := `
			REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(phone,'+',''),' ',''),'-',''),'(',''),')','')
		`
		if err := gdb.Where(q+" = ?", inDigits).First(&user).Error; err == nil {
			return &user, nil
		}
	}

	return nil, ErrNoMatch
}
