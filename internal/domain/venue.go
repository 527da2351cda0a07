package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// Venue identifies one of the restaurants whose menu is managed here. Every
// category, item, price override and translation belongs to exactly one venue.
type Venue string

const (
	VenueMosaico Venue = "mosaico"
	VenueHikayat Venue = "hikayat"
)

// Venues lists every known venue.
func Venues() []Venue {
	return []Venue{VenueMosaico, VenueHikayat}
}

// ParseVenue accepts a venue name in any letter case.
func ParseVenue(s string) (Venue, error) {
	v := Venue(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", apperrors.InvalidInput(fmt.Sprintf("unknown venue %q", s))
	}
	return v, nil
}

// Valid reports whether v is a known venue.
func (v Venue) Valid() bool {
	return v == VenueMosaico || v == VenueHikayat
}

func (v Venue) String() string { return string(v) }
