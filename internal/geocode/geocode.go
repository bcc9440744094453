// Package geocode turns postal addresses into coordinates.
package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
)

// Candidate is one match for an address. orb points are stored as [longitude, latitude].
type Candidate struct {
	Point       orb.Point
	DisplayName string
}

// Latitude of the candidate in degrees.
func (c Candidate) Latitude() float64 {
	return c.Point.Lat()
}

// Longitude of the candidate in degrees.
func (c Candidate) Longitude() float64 {
	return c.Point.Lon()
}

// Geocoder looks up an address. An address without any match yields an empty slice and no error.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]Candidate, error)
}

// ComposeAddress builds the single-line address that is sent to the geocoder.
func ComposeAddress(street, city, state, zip, country string) string {
	return fmt.Sprintf("%s, %s, %s, %s, %s", street, city, state, zip, country)
}

// Static is a Geocoder that answers every lookup with the same candidates. It is meant for tests
// and for development without network access.
type Static struct {
	Candidates []Candidate
	// Record keeps every looked up address for Calls.
	Record bool

	mu    sync.Mutex
	calls []string
}

// NewStatic returns a Static geocoder answering with a single point.
func NewStatic(lat, lon float64) *Static {
	return &Static{Candidates: []Candidate{{Point: orb.Point{lon, lat}}}}
}

// Geocode returns the configured candidates.
func (s *Static) Geocode(_ context.Context, address string) ([]Candidate, error) {
	if !s.Record {
		return s.Candidates, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, address)
	return s.Candidates, nil
}

// Calls returns every address that was looked up while Record was set.
func (s *Static) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
