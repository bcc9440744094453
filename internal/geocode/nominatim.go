package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// DefaultLimit is the number of candidates requested from Nominatim.
const DefaultLimit = 5

// Nominatim geocodes addresses with the OpenStreetMap Nominatim search API.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limit     int
}

// NewNominatim creates a client for the Nominatim instance at baseURL. The usage policy of the
// public instance requires an identifying user agent.
func NewNominatim(baseURL, userAgent string, client *http.Client) *Nominatim {
	if client == nil {
		client = http.DefaultClient
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		limit:     DefaultLimit,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode searches for the address. Nominatim answers an unknown address with an empty list.
func (n *Nominatim) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "jsonv2")
	query.Set("limit", strconv.Itoa(n.limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build geocode request")
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "geocode request")
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocode request: unexpected status %s", res.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(res.Body).Decode(&places); err != nil {
		return nil, errors.Wrap(err, "decode geocode response")
	}
	candidates := make([]Candidate, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse latitude %q", p.Lat)
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse longitude %q", p.Lon)
		}
		candidates = append(candidates, Candidate{Point: orb.Point{lon, lat}, DisplayName: p.DisplayName})
	}
	return candidates, nil
}
