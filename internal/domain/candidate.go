package domain

import (
	"fmt"
	"strings"
)

// Category partitions candidate results and favorites.
type Category string

const (
	CategoryLodging   Category = "lodging"
	CategoryTransport Category = "transport"
	CategoryActivity  Category = "activity"
	CategoryDining    Category = "dining"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryLodging, CategoryTransport, CategoryActivity, CategoryDining}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("parse category: unknown category %q", s)
}

// CandidateResult is a normalized search result or favorite.
//
// ID is unique within its category only. Travel annotations are meaningful
// only for the day ordering that produced them.
type CandidateResult struct {
	ID          string       `json:"id" yaml:"id"`
	Category    Category     `json:"category" yaml:"category"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Price       *float64     `json:"price,omitempty" yaml:"price,omitempty"`
	Currency    string       `json:"currency,omitempty" yaml:"currency,omitempty"`
	Address     string       `json:"address,omitempty" yaml:"address,omitempty"`
	BookingLink string       `json:"booking_link,omitempty" yaml:"booking_link,omitempty"`
	Rating      *float64     `json:"rating,omitempty" yaml:"rating,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Image       string       `json:"image" yaml:"image"`

	// Priority orders activities during distribution; zero means unassigned.
	Priority int `json:"priority,omitempty" yaml:"priority,omitempty"`

	TravelTimeFromPrevious     *int    `json:"travel_time_from_previous,omitempty" yaml:"travel_time_from_previous,omitempty"`
	TravelDistanceFromPrevious *int    `json:"travel_distance_from_previous,omitempty" yaml:"travel_distance_from_previous,omitempty"`
	AssignedDate               *string `json:"assigned_date,omitempty" yaml:"assigned_date,omitempty"`
}

// HasCoordinates reports whether geocoding succeeded for the item.
func (c CandidateResult) HasCoordinates() bool { return c.Coordinates != nil }

// ClearTravel drops the travel annotations.
func (c *CandidateResult) ClearTravel() {
	c.TravelTimeFromPrevious = nil
	c.TravelDistanceFromPrevious = nil
}
