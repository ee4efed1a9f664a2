// Package engine is the single source of truth for check-in
// eligibility and the attendance counters shown throughout the UI.
package engine

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/greenevillebjj/matdesk/internal/belts"
	"github.com/greenevillebjj/matdesk/internal/models"
)

// Window is the minimum interval between automatic check-ins. Fixed at
// 12 hours, not "once per calendar day": an 11pm check-in blocks a 9am
// one the next morning.
const Window = 12 * time.Hour

var (
	// ErrNotFound: the referenced member does not exist.
	ErrNotFound = errors.New("member not found")
	// ErrValidation: malformed rank or timestamp on a manual mutation.
	ErrValidation = errors.New("invalid check-in data")
)

type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func New(gdb *gorm.DB) *Engine {
	return &Engine{db: gdb, now: time.Now}
}

// NewWithClock injects the time source so tests can sit exactly on
// window and month boundaries.
func NewWithClock(gdb *gorm.DB, now func() time.Time) *Engine {
	return &Engine{db: gdb, now: now}
}

// latestPromotion returns the most recently created promotion for the
// member, or nil when the ledger is empty. Ties on created_at go to
// the later insert.
func (e *Engine) latestPromotion(userID string) (*models.Promotion, error) {
	var p models.Promotion
	err := e.db.Where("user_id = ?", userID).
		Order("created_at DESC, rowid DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CurrentRank resolves the member's rank from the promotion ledger.
// The white-belt/zero-stripes fallback for an empty ledger is
// substituted here and nowhere else. Missing members are not an error;
// callers confirm existence themselves.
func (e *Engine) CurrentRank(userID string) (belts.Rank, error) {
	p, err := e.latestPromotion(userID)
	if err != nil {
		return belts.DefaultRank, err
	}
	if p == nil {
		return belts.DefaultRank, nil
	}
	return belts.Rank{Belt: p.Belt, Stripes: p.Stripes}, nil
}

func (e *Engine) lastCheckin(userID string) (*models.Checkin, error) {
	var c models.Checkin
	err := e.db.Where("user_id = ?", userID).
		Order("checked_at DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// TimeUntilNextCheckin returns how long until the member may check in
// again: zero when there is no prior check-in or the window has
// elapsed, otherwise the remainder of the window. Pure read; no side
// effects.
func (e *Engine) TimeUntilNextCheckin(userID string) (time.Duration, error) {
	last, err := e.lastCheckin(userID)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 0, nil
	}
	elapsed := e.now().Sub(last.CheckedAt)
	if elapsed >= Window {
		return 0, nil
	}
	return Window - elapsed, nil
}

// NextEligibleAt is max(now, last check-in + window), for telling a
// just-checked-in member when they may return.
func (e *Engine) NextEligibleAt(userID string) (time.Time, error) {
	now := e.now()
	last, err := e.lastCheckin(userID)
	if err != nil {
		return now, err
	}
	if last == nil {
		return now, nil
	}
	if next := last.CheckedAt.Add(Window); next.After(now) {
		return next, nil
	}
	return now, nil
}

// RecordCheckin is the automatic (kiosk) path. The cool-down window is
// enforced here, not trusted to the caller: inside the window no record
// is created and created is false — a normal negative result, not an
// error. Belt and stripes are snapshotted from the current rank and
// checkedAt is now.
func (e *Engine) RecordCheckin(userID string) (rec *models.Checkin, created bool, err error) {
	if err := e.ensureMember(userID); err != nil {
		return nil, false, err
	}
	remaining, err := e.TimeUntilNextCheckin(userID)
	if err != nil {
		return nil, false, err
	}
	if remaining > 0 {
		return nil, false, nil
	}
	rank, err := e.CurrentRank(userID)
	if err != nil {
		return nil, false, err
	}
	c := models.Checkin{
		UserID:    userID,
		Belt:      rank.Belt,
		Stripes:   rank.Stripes,
		CheckedAt: e.now(),
	}
	if err := e.db.Create(&c).Error; err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

// RecordManualCheckin is the admin correction/backfill path. It
// bypasses the cool-down entirely; belt, stripes and checkedAt are all
// caller-supplied so historical entries can be fixed or backdated.
func (e *Engine) RecordManualCheckin(userID string, belt belts.Belt, stripes int, checkedAt time.Time) (*models.Checkin, error) {
	if err := e.ensureMember(userID); err != nil {
		return nil, err
	}
	if !belts.Valid(belt) {
		return nil, fmt.Errorf("%w: unknown belt %q", ErrValidation, belt)
	}
	if !belts.ValidStripes(stripes) {
		return nil, fmt.Errorf("%w: stripes %d out of range", ErrValidation, stripes)
	}
	if checkedAt.IsZero() {
		return nil, fmt.Errorf("%w: missing check-in time", ErrValidation)
	}
	c := models.Checkin{
		UserID:    userID,
		Belt:      belt,
		Stripes:   stripes,
		CheckedAt: checkedAt,
	}
	if err := e.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Attendance bundles the three counter lists. The predicates are
// independent, not a partition: a this-month check-in can also be "at
// rank".
type Attendance struct {
	ThisMonth []models.Checkin
	LastMonth []models.Checkin
	AtRank    []models.Checkin
}

// monthRange returns the inclusive bounds of t's calendar month in t's
// location.
func monthRange(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// AggregateAttendance filters the member's check-in history three ways:
// current calendar month, previous calendar month (both local
// wall-clock, inclusive), and rank-snapshot equality against rank.
func (e *Engine) AggregateAttendance(userID string, rank belts.Rank) (*Attendance, error) {
	now := e.now()
	thisStart, thisEnd := monthRange(now)
	lastStart, lastEnd := monthRange(thisStart.AddDate(0, -1, 0))

	var out Attendance
	if err := e.db.
		Where("user_id = ? AND checked_at BETWEEN ? AND ?", userID, thisStart, thisEnd).
		Order("checked_at DESC").
		Find(&out.ThisMonth).Error; err != nil {
		return nil, err
	}
	if err := e.db.
		Where("user_id = ? AND checked_at BETWEEN ? AND ?", userID, lastStart, lastEnd).
		Order("checked_at DESC").
		Find(&out.LastMonth).Error; err != nil {
		return nil, err
	}
	if err := e.db.
		Where("user_id = ? AND belt = ? AND stripes = ?", userID, rank.Belt, rank.Stripes).
		Order("checked_at DESC").
		Find(&out.AtRank).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *Engine) ensureMember(userID string) error {
	var n int64
	if err := e.db.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
