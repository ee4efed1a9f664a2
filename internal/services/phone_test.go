package services

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenevillebjj/matdesk/internal/models"
)

func TestFormatPhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"4235550142", "423-555-0142"},
		{"(423) 555-0142", "423-555-0142"},
		{"423", "423"},
		{"42355", "423-55"},
		{"14235550142", "142-355-5014"}, // only the first ten digits are kept
		{"", ""},
	}
	for _, c := range cases {
		if got := FormatPhone(c.in); got != c.want {
			t.Errorf("FormatPhone(%q): want %q, got %q", c.in, c.want, got)
		}
	}
}

func TestNormPhone_Rejects(t *testing.T) {
	for _, in := range []string{"call me", "423555x142", "555-CALL"} {
		if got := NormPhone(in); got != "" {
			t.Errorf("NormPhone(%q): want empty, got %q", in, got)
		}
	}
	if got := NormPhone(" (423) 555-0142 "); got != "423-555-0142" {
		t.Errorf("NormPhone: want 423-555-0142, got %q", got)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func TestFindUserByPhone(t *testing.T) {
	gdb := openTestDB(t)
	u := models.User{FirstName: "Jo", LastName: "Park", Phone: "423-555-0142"}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Canonical, raw-with-punctuation, and digits-only inputs all hit.
	for _, in := range []string{"423-555-0142", "(423) 555 0142", "4235550142"} {
		got, err := FindUserByPhone(gdb, in)
		if err != nil {
			t.Errorf("FindUserByPhone(%q): %v", in, err)
			continue
		}
		if got.ID != u.ID {
			t.Errorf("FindUserByPhone(%q): wrong user %s", in, got.ID)
		}
	}

	if _, err := FindUserByPhone(gdb, "423-555-9999"); err != ErrNoMatch {
		t.Errorf("unknown number: want ErrNoMatch, got %v", err)
	}
}
