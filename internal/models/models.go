package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/belts"
)

// All records carry opaque string ids (UUID v4). Ids are assigned once
// at creation and never change; backup restore supplies them verbatim,
// so the hooks only fill ids that are empty.

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Gender          string    `json:"gender"`
	Birthday        time.Time `json:"birthday"`
	Email           string    `json:"email"`
	Phone           string    `gorm:"index" json:"phone"`
	HasSignedWaiver bool      `json:"hasSignedWaiver"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Checkin is one attendance event. Belt and stripes are snapshots of
// the member's rank at check-in time; later promotions do not rewrite
// them. CheckedAt is the attendance instant and may be backdated by
// manual entry, unlike CreatedAt.
type Checkin struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID    string     `gorm:"index;not null" json:"userId"`
	Belt      belts.Belt `gorm:"size:16" json:"belt"`
	Stripes   int        `json:"stripes"`
	CheckedAt time.Time  `json:"checkedAt"`
}

func (c *Checkin) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Promotion is one rank-change event. The most recently created row
// per user defines that user's current rank.
type Promotion struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID     string     `gorm:"index;not null" json:"userId"`
	Belt       belts.Belt `gorm:"size:16" json:"belt"`
	Stripes    int        `json:"stripes"`
	PromotedAt time.Time  `json:"promotedAt"`
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// EmergencyContact: zero or more per member. "Primary" is advisory;
// the model does not forbid several contacts flagged primary.
type EmergencyContact struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID             string `gorm:"index;not null" json:"userId"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Relationship       string `json:"relationship"`
	IsParentOrGuardian bool   `json:"isParentOrGuardian"`
	IsPrimaryContact   bool   `json:"isPrimaryContact"`
}

func (e *EmergencyContact) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
