package backup

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db")
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Checkin{},
		&models.Promotion{},
		&models.EmergencyContact{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func seed(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	u := models.User{
		FirstName: "Dana",
		LastName:  "Okafor",
		Birthday:  time.Date(1988, 9, 12, 0, 0, 0, 0, time.Local),
		Phone:     "423-555-0199",
		Email:     "dana@example.com",
	}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	rows := []any{
		&models.Promotion{UserID: u.ID, Belt: belts.Brown, Stripes: 1, PromotedAt: time.Now().AddDate(-1, 0, 0)},
		&models.Checkin{UserID: u.ID, Belt: belts.Brown, Stripes: 1, CheckedAt: time.Now().AddDate(0, 0, -2)},
		&models.Checkin{UserID: u.ID, Belt: belts.Brown, Stripes: 1, CheckedAt: time.Now().AddDate(0, 0, -1)},
		&models.EmergencyContact{UserID: u.ID, Name: "Sam Okafor", Phone: "423-555-0200", Relationship: "spouse", IsPrimaryContact: true},
	}
	for _, row := range rows {
		if err := gdb.Create(row).Error; err != nil {
			t.Fatalf("seed row: %v", err)
		}
	}
}

// TestRoundTrip: export, then restore into the same (dirtied) store,
// and verify the record sets come back identical — same ids, same
// field values.
func TestRoundTrip(t *testing.T) {
	gdb := openTestDB(t)
	seed(t, gdb)

	before, err := Export(gdb)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	// Dirty the store so a lazy no-op import would be caught.
	extra := models.User{FirstName: "Intruder", LastName: "Row", Phone: "000"}
	if err := gdb.Create(&extra).Error; err != nil {
		t.Fatalf("dirty store: %v", err)
	}

	// Serialize through the same path the download/upload handlers use.
	var buf bytes.Buffer
	if err := Write(&buf, before); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	dump, err := Read(&buf)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	if err := Import(gdb, dump); err != nil {
		t.Fatalf("import: %v", err)
	}

	after, err := Export(gdb)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}

	if len(after.Users) != len(before.Users) {
		t.Fatalf("users: want %d, got %d", len(before.Users), len(after.Users))
	}
	for i := range before.Users {
		b, a := before.Users[i], after.Users[i]
		if a.ID != b.ID || a.FirstName != b.FirstName || a.Phone != b.Phone || a.Email != b.Email {
			t.Errorf("user %d mismatch: %+v vs %+v", i, b, a)
		}
		if !a.Birthday.Equal(b.Birthday) {
			t.Errorf("user %d birthday: %v vs %v", i, b.Birthday, a.Birthday)
		}
	}

	if len(after.Checkins) != len(before.Checkins) {
		t.Fatalf("checkins: want %d, got %d", len(before.Checkins), len(after.Checkins))
	}
	for i := range before.Checkins {
		b, a := before.Checkins[i], after.Checkins[i]
		if a.ID != b.ID || a.UserID != b.UserID || a.Belt != b.Belt || a.Stripes != b.Stripes {
			t.Errorf("checkin %d mismatch: %+v vs %+v", i, b, a)
		}
		if !a.CheckedAt.Equal(b.CheckedAt) {
			t.Errorf("checkin %d checkedAt: %v vs %v", i, b.CheckedAt, a.CheckedAt)
		}
	}

	if len(after.Promotions) != 1 || after.Promotions[0].ID != before.Promotions[0].ID {
		t.Errorf("promotions did not round-trip: %+v", after.Promotions)
	}
	if len(after.EmergencyContacts) != 1 ||
		after.EmergencyContacts[0].ID != before.EmergencyContacts[0].ID ||
		!after.EmergencyContacts[0].IsPrimaryContact {
		t.Errorf("contacts did not round-trip: %+v", after.EmergencyContacts)
	}
}

// TestImport_DestructiveReplace: restore must wipe rows that are not
// in the dump.
func TestImport_DestructiveReplace(t *testing.T) {
	gdb := openTestDB(t)
	seed(t, gdb)

	empty := &Dump{}
	if err := Import(gdb, empty); err != nil {
		t.Fatalf("import empty dump: %v", err)
	}

	for name, model := range map[string]any{
		"users":      &models.User{},
		"checkins":   &models.Checkin{},
		"promotions": &models.Promotion{},
		"contacts":   &models.EmergencyContact{},
	} {
		var n int64
		gdb.Model(model).Count(&n)
		if n != 0 {
			t.Errorf("%s: want 0 rows after empty restore, got %d", name, n)
		}
	}
}
