package belts

import (
	"testing"
	"time"
)

// TestAge_BirthdayBoundary pins the calendar rule: the 16th birthday
// itself counts as adult, the day before does not.
func TestAge_BirthdayBoundary(t *testing.T) {
	at := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	exactly16 := time.Date(2009, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := Age(exactly16, at); got != 16 {
		t.Errorf("Age on 16th birthday: want 16, got %d", got)
	}
	if !IsAdult(exactly16, at) {
		t.Error("16th birthday today should classify as adult")
	}

	dayShort := time.Date(2009, 6, 16, 0, 0, 0, 0, time.UTC)
	if got := Age(dayShort, at); got != 15 {
		t.Errorf("Age one day before 16th anniversary: want 15, got %d", got)
	}
	if IsAdult(dayShort, at) {
		t.Error("one day short of 16 should classify as child")
	}
}

func TestAge_BirthdayLaterInYear(t *testing.T) {
	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	dob := time.Date(2000, 11, 20, 0, 0, 0, 0, time.UTC)
	if got := Age(dob, at); got != 24 {
		t.Errorf("birthday not yet occurred this year: want 24, got %d", got)
	}
}

func TestSequenceFor(t *testing.T) {
	at := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	adult := SequenceFor(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), at)
	if len(adult) != 8 {
		t.Fatalf("adult sequence length: want 8, got %d", len(adult))
	}
	if adult[0] != White || adult[len(adult)-1] != Red {
		t.Errorf("adult sequence should run White..Red, got %v", adult)
	}

	child := SequenceFor(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), at)
	if len(child) != 13 {
		t.Fatalf("child sequence length: want 13, got %d", len(child))
	}
	if child[0] != White || child[len(child)-1] != GreenBlack {
		t.Errorf("child sequence should run White..Green/Black, got %v", child)
	}
}

func TestOrder_TotalAndStrict(t *testing.T) {
	seen := map[int]Belt{}
	for _, b := range DisplayOrder {
		o := Order(b)
		if prev, dup := seen[o]; dup {
			t.Fatalf("belts %s and %s share order %d", prev, b, o)
		}
		seen[o] = b
	}
	if Order(White) >= Order(Blue) {
		t.Error("White must sort before Blue")
	}
	if Order(Blue) >= Order(Black) {
		t.Error("Blue must sort before Black")
	}
	if Order(Belt("MAGENTA")) != len(DisplayOrder) {
		t.Error("unknown belts must sort last")
	}
}

func TestValidStripes(t *testing.T) {
	for _, n := range []int{0, 1, 6} {
		if !ValidStripes(n) {
			t.Errorf("stripes %d should be valid", n)
		}
	}
	for _, n := range []int{-1, 7, 100} {
		if ValidStripes(n) {
			t.Errorf("stripes %d should be invalid", n)
		}
	}
}

func TestDisplay(t *testing.T) {
	if got := GreyWhite.Display(); got != "Grey/White" {
		t.Errorf("GreyWhite.Display: want Grey/White, got %q", got)
	}
	if got := White.Display(); got != "White" {
		t.Errorf("White.Display: want White, got %q", got)
	}
	r := Rank{Belt: Blue, Stripes: 2}
	if got := r.Display(); got != "Blue, 2 stripes" {
		t.Errorf("Rank.Display: want %q, got %q", "Blue, 2 stripes", got)
	}
}
