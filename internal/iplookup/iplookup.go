// Package iplookup resolves client IPs to coarse geographic locations.
// Resolution is best effort: a missing database, a private address, or an
// IP absent from the dataset all yield no location rather than an error,
// and callers treat "no location" as "no signal".
package iplookup

import (
	"context"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Location is the coarse position derived from an IP address.
type Location struct {
	Latitude    float64
	Longitude   float64
	CountryCode string
}

// Resolver maps an IP address to a location. A nil Location with a nil
// error means the IP could not be placed.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (*Location, error)
}

// MaxMindResolver reads a MaxMind GeoLite2/GeoIP2 City database.
type MaxMindResolver struct {
	reader *geoip2.Reader
}

// NewMaxMindResolver opens the City database at path. The caller owns the
// returned resolver and must Close it.
func NewMaxMindResolver(path string) (*MaxMindResolver, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &MaxMindResolver{reader: reader}, nil
}

func (r *MaxMindResolver) Resolve(_ context.Context, ip string) (*Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() {
		return nil, nil
	}

	record, err := r.reader.City(parsed)
	if err != nil {
		return nil, fmt.Errorf("geoip city lookup: %w", err)
	}
	if record == nil || (record.Location.Latitude == 0 && record.Location.Longitude == 0) {
		return nil, nil
	}

	return &Location{
		Latitude:    record.Location.Latitude,
		Longitude:   record.Location.Longitude,
		CountryCode: record.Country.IsoCode,
	}, nil
}

func (r *MaxMindResolver) Close() error {
	return r.reader.Close()
}

// NoopResolver is used when no database is configured; every lookup yields
// no location.
type NoopResolver struct{}

func (NoopResolver) Resolve(context.Context, string) (*Location, error) {
	return nil, nil
}
