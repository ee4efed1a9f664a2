// Package backup implements the all-or-nothing JSON dump used for
// local backup and restore.
package backup

import (
	"encoding/json"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/models"
)

// Dump is a full snapshot of every table. Restore loads it verbatim,
// ids and timestamps included.
type Dump struct {
	ExportedAt        time.Time                 `json:"exportedAt"`
	Users             []models.User             `json:"users"`
	Checkins          []models.Checkin          `json:"checkins"`
	Promotions        []models.Promotion        `json:"promotions"`
	EmergencyContacts []models.EmergencyContact `json:"emergencyContacts"`
}

// Export reads every table in full.
func Export(gdb *gorm.DB) (*Dump, error) {
	d := &Dump{ExportedAt: time.Now()}
	if err := gdb.Order("created_at").Find(&d.Users).Error; err != nil {
		return nil, err
	}
	if err := gdb.Order("created_at").Find(&d.Checkins).Error; err != nil {
		return nil, err
	}
	if err := gdb.Order("created_at").Find(&d.Promotions).Error; err != nil {
		return nil, err
	}
	if err := gdb.Order("created_at").Find(&d.EmergencyContacts).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// Import performs a destructive replace: every existing row in every
// table is deleted, then the dump's contents are inserted as-is. The
// whole operation runs in one transaction so a malformed dump cannot
// leave a half-wiped store.
func Import(gdb *gorm.DB, d *Dump) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := wipe.Delete(&models.Checkin{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&models.Promotion{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&models.EmergencyContact{}).Error; err != nil {
			return err
		}
		if err := wipe.Delete(&models.User{}).Error; err != nil {
			return err
		}

		if len(d.Users) > 0 {
			if err := tx.CreateInBatches(d.Users, 200).Error; err != nil {
				return err
			}
		}
		if len(d.Checkins) > 0 {
			if err := tx.CreateInBatches(d.Checkins, 200).Error; err != nil {
				return err
			}
		}
		if len(d.Promotions) > 0 {
			if err := tx.CreateInBatches(d.Promotions, 200).Error; err != nil {
				return err
			}
		}
		if len(d.EmergencyContacts) > 0 {
			if err := tx.CreateInBatches(d.EmergencyContacts, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Write serializes the dump as indented JSON, matching the files the
// desktop era produced.
func Write(w io.Writer, d *Dump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Read parses a dump file.
func Read(r io.Reader) (*Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}
