package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// flexFloat accepts a JSON number or a numeric string; providers use both.
type flexFloat struct {
	v  float64
	ok bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Unparseable optional numbers are treated as absent.
		return nil
	}
	f.v, f.ok = v, true
	return nil
}

func (f flexFloat) ptr() *float64 {
	if !f.ok {
		return nil
	}
	v := f.v
	return &v
}

type geoCode struct {
	Latitude  flexFloat `json:"latitude"`
	Longitude flexFloat `json:"longitude"`
}

func (g *geoCode) coordinates() *domain.Coordinates {
	if g == nil || !g.Latitude.ok || !g.Longitude.ok {
		return nil
	}
	c := domain.Coordinates{Lat: g.Latitude.v, Lng: g.Longitude.v}
	if !c.Valid() {
		return nil
	}
	return &c
}

type flightOffer struct {
	ID          string `json:"id"`
	Itineraries []struct {
		Segments []struct {
			Departure struct {
				IataCode string `json:"iataCode"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
	Price                  struct {
		Total    flexFloat `json:"total"`
		Currency string    `json:"currency"`
	} `json:"price"`
}

type hotelOffer struct {
	HotelID string    `json:"hotelId"`
	Name    string    `json:"name"`
	Rating  flexFloat `json:"rating"`
	Address struct {
		Lines      []string `json:"lines"`
		CityName   string   `json:"cityName"`
		PostalCode string   `json:"postalCode"`
	} `json:"address"`
	Media []struct {
		URI string `json:"uri"`
	} `json:"media"`
	GeoCode *geoCode `json:"geoCode"`
}

type activityOffer struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"shortDescription"`
	Pictures         []string  `json:"pictures"`
	BookingLink      string    `json:"bookingLink"`
	Rating           flexFloat `json:"rating"`
	GeoCode          *geoCode  `json:"geoCode"`
	Price            struct {
		Amount       flexFloat `json:"amount"`
		CurrencyCode string    `json:"currencyCode"`
	} `json:"price"`
}

// normalized is a CandidateResult plus the provider hints used for enrichment.
type normalized struct {
	item     domain.CandidateResult
	address  string
	imageURL string
}

// categoryFor maps a provider endpoint to its result category.
func categoryFor(kind ports.SearchKind) domain.Category {
	switch kind {
	case ports.SearchFlights:
		return domain.CategoryTransport
	case ports.SearchHotels:
		return domain.CategoryLodging
	default:
		return domain.CategoryActivity
	}
}

// normalizeRecord converts one provider record into the common result shape.
// Missing optional fields are tolerated; only an undecodable record is an error.
func normalizeRecord(kind ports.SearchKind, raw json.RawMessage) (normalized, error) {
	switch kind {
	case ports.SearchFlights:
		return normalizeFlight(raw)
	case ports.SearchHotels:
		return normalizeHotel(raw)
	case ports.SearchActivities:
		return normalizeActivity(raw)
	}
	return normalized{}, fmt.Errorf("normalize: unknown search kind %q", kind)
}

func normalizeFlight(raw json.RawMessage) (normalized, error) {
	var f flightOffer
	if err := json.Unmarshal(raw, &f); err != nil {
		return normalized{}, fmt.Errorf("normalize flight: %w", err)
	}

	dep, arr := "?", "?"
	if len(f.Itineraries) > 0 && len(f.Itineraries[0].Segments) > 0 {
		segs := f.Itineraries[0].Segments
		if c := segs[0].Departure.IataCode; c != "" {
			dep = c
		}
		if c := segs[len(segs)-1].Arrival.IataCode; c != "" {
			arr = c
		}
	}

	desc := make([]string, 0, 2)
	if len(f.ValidatingAirlineCodes) > 0 {
		desc = append(desc, "Airline: "+strings.Join(f.ValidatingAirlineCodes, ", "))
	}
	if f.Price.Total.ok {
		desc = append(desc, strings.TrimSpace(fmt.Sprintf("Price: %.2f %s", f.Price.Total.v, f.Price.Currency)))
	}

	return normalized{item: domain.CandidateResult{
		ID:          f.ID,
		Category:    domain.CategoryTransport,
		Title:       dep + " → " + arr,
		Description: strings.Join(desc, ", "),
		Price:       f.Price.Total.ptr(),
		Currency:    f.Price.Currency,
	}}, nil
}

func normalizeHotel(raw json.RawMessage) (normalized, error) {
	var h hotelOffer
	if err := json.Unmarshal(raw, &h); err != nil {
		return normalized{}, fmt.Errorf("normalize hotel: %w", err)
	}

	parts := make([]string, 0, len(h.Address.Lines)+2)
	parts = append(parts, h.Address.Lines...)
	if h.Address.PostalCode != "" {
		parts = append(parts, h.Address.PostalCode)
	}
	if h.Address.CityName != "" {
		parts = append(parts, h.Address.CityName)
	}
	address := strings.Join(parts, ", ")

	n := normalized{
		item: domain.CandidateResult{
			ID:          h.HotelID,
			Category:    domain.CategoryLodging,
			Title:       h.Name,
			Description: address,
			Address:     address,
			Rating:      h.Rating.ptr(),
			Coordinates: h.GeoCode.coordinates(),
		},
		address: address,
	}
	for _, m := range h.Media {
		if m.URI != "" {
			n.imageURL = m.URI
			break
		}
	}
	return n, nil
}

func normalizeActivity(raw json.RawMessage) (normalized, error) {
	var a activityOffer
	if err := json.Unmarshal(raw, &a); err != nil {
		return normalized{}, fmt.Errorf("normalize activity: %w", err)
	}

	n := normalized{item: domain.CandidateResult{
		ID:          a.ID,
		Category:    domain.CategoryActivity,
		Title:       a.Name,
		Description: a.ShortDescription,
		Price:       a.Price.Amount.ptr(),
		Currency:    a.Price.CurrencyCode,
		BookingLink: a.BookingLink,
		Rating:      a.Rating.ptr(),
		Coordinates: a.GeoCode.coordinates(),
	}}
	if len(a.Pictures) > 0 {
		n.imageURL = a.Pictures[0]
	}
	return n, nil
}
