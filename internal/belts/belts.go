// Package belts holds the BJJ rank domain: the belt color enum, the
// display ordering, the adult and child progression sequences, and the
// calendar-age rule that decides which sequence applies.
package belts

import (
	"strconv"
	"strings"
	"time"
)

type Belt string

const (
	White       Belt = "WHITE"
	Grey        Belt = "GREY"
	GreyWhite   Belt = "GREY_WHITE"
	GreyBlack   Belt = "GREY_BLACK"
	Yellow      Belt = "YELLOW"
	YellowWhite Belt = "YELLOW_WHITE"
	YellowBlack Belt = "YELLOW_BLACK"
	Orange      Belt = "ORANGE"
	OrangeWhite Belt = "ORANGE_WHITE"
	OrangeBlack Belt = "ORANGE_BLACK"
	Green       Belt = "GREEN"
	GreenWhite  Belt = "GREEN_WHITE"
	GreenBlack  Belt = "GREEN_BLACK"
	Blue        Belt = "BLUE"
	Purple      Belt = "PURPLE"
	Brown       Belt = "BROWN"
	Black       Belt = "BLACK"
	RedBlack    Belt = "RED_BLACK"
	RedWhite    Belt = "RED_WHITE"
	Red         Belt = "RED"
)

// DisplayOrder is the canonical sort order for mixed adult/child lists
// (children's greys through greens sit between white and blue).
var DisplayOrder = []Belt{
	White,
	GreyWhite, Grey, GreyBlack,
	YellowWhite, Yellow, YellowBlack,
	OrangeWhite, Orange, OrangeBlack,
	GreenWhite, Green, GreenBlack,
	Blue, Purple, Brown, Black,
	RedBlack, RedWhite, Red,
}

// AdultSequence is the 8-rank adult progression.
var AdultSequence = []Belt{White, Blue, Purple, Brown, Black, RedWhite, RedBlack, Red}

// ChildSequence is the 13-rank child progression (white plus the
// grey/yellow/orange/green tiers, ending at green/black).
var ChildSequence = []Belt{
	White,
	GreyWhite, Grey, GreyBlack,
	YellowWhite, Yellow, YellowBlack,
	OrangeWhite, Orange, OrangeBlack,
	GreenWhite, Green, GreenBlack,
}

var orderIndex = func() map[Belt]int {
	m := make(map[Belt]int, len(DisplayOrder))
	for i, b := range DisplayOrder {
		m[b] = i
	}
	return m
}()

// Order returns the belt's position in DisplayOrder. Unknown belts sort
// last.
func Order(b Belt) int {
	if i, ok := orderIndex[b]; ok {
		return i
	}
	return len(DisplayOrder)
}

func Valid(b Belt) bool {
	_, ok := orderIndex[b]
	return ok
}

// Display renders the enum value for humans, e.g. GREY_WHITE -> "Grey/White".
func (b Belt) Display() string {
	parts := strings.Split(string(b), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.Join(parts, "/")
}

// MaxStripes caps the stripe count on a single belt.
const MaxStripes = 6

func ValidStripes(n int) bool {
	return n >= 0 && n <= MaxStripes
}

// Rank is a belt plus stripe count.
type Rank struct {
	Belt    Belt
	Stripes int
}

// DefaultRank is the rank assumed when a member has no promotion on
// record.
var DefaultRank = Rank{Belt: White, Stripes: 0}

func (r Rank) Valid() bool {
	return Valid(r.Belt) && ValidStripes(r.Stripes)
}

func (r Rank) Display() string {
	switch {
	case r.Stripes == 1:
		return r.Belt.Display() + ", 1 stripe"
	case r.Stripes > 1:
		return r.Belt.Display() + ", " + strconv.Itoa(r.Stripes) + " stripes"
	default:
		return r.Belt.Display()
	}
}

// AdultAge is the cutoff for the adult belt sequence.
const AdultAge = 16

// Age computes whole years between birthday and at, decrementing when
// the birthday has not yet occurred in at's calendar year. This is the
// calendar rule, not elapsed-days division.
func Age(birthday, at time.Time) int {
	years := at.Year() - birthday.Year()
	anniversary := time.Date(at.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, at.Location())
	if at.Before(anniversary) {
		years--
	}
	return years
}

func IsAdult(birthday, at time.Time) bool {
	return Age(birthday, at) >= AdultAge
}

// SequenceFor picks the progression appropriate to the member's age at
// the evaluation instant.
func SequenceFor(birthday, at time.Time) []Belt {
	if IsAdult(birthday, at) {
		return AdultSequence
	}
	return ChildSequence
}
