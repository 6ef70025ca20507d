package fraud

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"geovote/internal/geo"
	"geovote/internal/iplookup"
)

// stubPatterns implements PatternReader with canned responses.
type stubPatterns struct {
	uniqueIPs          int
	uniqueFingerprints int
	voteTimes          []time.Time
	coordinateCount    int
	err                error
}

func (s *stubPatterns) UniqueIPCount(context.Context, string, string) (int, error) {
	return s.uniqueIPs, s.err
}

func (s *stubPatterns) UniqueFingerprintCount(context.Context, string, string) (int, error) {
	return s.uniqueFingerprints, s.err
}

func (s *stubPatterns) RecentVoteTimes(context.Context, string, int) ([]time.Time, error) {
	return s.voteTimes, s.err
}

func (s *stubPatterns) CoordinateCount(context.Context, string, string) (int, error) {
	return s.coordinateCount, s.err
}

// stubResolver implements iplookup.Resolver with a fixed location.
type stubResolver struct {
	location *iplookup.Location
	err      error
}

func (s *stubResolver) Resolve(context.Context, string) (*iplookup.Location, error) {
	return s.location, s.err
}

func testInput() Input {
	return Input{
		MatchID:         "match-1",
		FingerprintHash: "fp-1",
		IPHash:          "ip-1",
		ClientIP:        "203.0.113.50",
		UserAgent:       "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
		At:              time.Now(),
	}
}

func TestMultiIPDetector(t *testing.T) {
	tests := []struct {
		name      string
		uniqueIPs int
		flagged   bool
	}{
		{"single ip", 1, false},
		{"at the threshold", 3, false},
		{"just past the threshold", 4, true},
		{"far past the threshold", 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &multiIPDetector{patterns: &stubPatterns{uniqueIPs: tt.uniqueIPs}}

			signal, err := d.Detect(context.Background(), testInput())
			require.NoError(t, err)

			event, ok := signal.Event()
			require.Equal(t, tt.flagged, ok)
			if ok {
				require.Equal(t, EventMultipleIPs, event.Type)
				require.Equal(t, SeverityMedium, event.Severity)
				require.Equal(t, tt.uniqueIPs, event.Metadata["unique_ips"])
			}
		})
	}
}

func TestMultiIPDetectorPropagatesStoreError(t *testing.T) {
	d := &multiIPDetector{patterns: &stubPatterns{err: errors.New("redis down")}}

	signal, err := d.Detect(context.Background(), testInput())
	require.Error(t, err)
	_, ok := signal.Event()
	require.False(t, ok)
}

func TestMultiFingerprintDetector(t *testing.T) {
	tests := []struct {
		name               string
		uniqueFingerprints int
		flagged            bool
	}{
		{"one fingerprint", 1, false},
		{"at the threshold", 5, false},
		{"just past the threshold", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &multiFingerprintDetector{patterns: &stubPatterns{uniqueFingerprints: tt.uniqueFingerprints}}

			signal, err := d.Detect(context.Background(), testInput())
			require.NoError(t, err)

			event, ok := signal.Event()
			require.Equal(t, tt.flagged, ok)
			if ok {
				require.Equal(t, EventMultipleFingerprints, event.Type)
				require.Equal(t, SeverityHigh, event.Severity)
			}
		})
	}
}

func TestRapidVotingDetector(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		times   []time.Time
		flagged bool
	}{
		{"no history", nil, false},
		{"single vote", []time.Time{base}, false},
		{"comfortable spacing", []time.Time{base, base.Add(30 * time.Second), base.Add(2 * time.Minute)}, false},
		{"exactly ten seconds", []time.Time{base, base.Add(10 * time.Second)}, false},
		{"burst at the end", []time.Time{base, base.Add(time.Minute), base.Add(time.Minute + 3*time.Second)}, true},
		{"burst in the middle", []time.Time{base, base.Add(2 * time.Second), base.Add(5 * time.Minute)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &rapidVotingDetector{patterns: &stubPatterns{voteTimes: tt.times}}

			signal, err := d.Detect(context.Background(), testInput())
			require.NoError(t, err)

			event, ok := signal.Event()
			require.Equal(t, tt.flagged, ok)
			if ok {
				require.Equal(t, EventRapidVoting, event.Type)
				require.Equal(t, SeverityLow, event.Severity)
			}
		})
	}
}

func TestUserAgentDetector(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		flagged   bool
	}{
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"desktop browser", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", false},
		{"mobile browser", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", false},
		{"declared crawler", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", true},
		{"curl", "curl/8.4.0", true},
		{"python requests", "python-requests/2.31.0", true},
		{"headless chrome", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) HeadlessChrome/119.0.0.0 Safari/537.36", true},
		{"selenium", "Mozilla/5.0 selenium/4.15 (java linux)", true},
	}

	d := &userAgentDetector{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testInput()
			input.UserAgent = tt.userAgent

			signal, err := d.Detect(context.Background(), input)
			require.NoError(t, err)

			event, ok := signal.Event()
			require.Equal(t, tt.flagged, ok, "user agent %q", tt.userAgent)
			if ok {
				require.Equal(t, EventSuspiciousUserAgent, event.Type)
				require.Equal(t, SeverityMedium, event.Severity)
			}
		})
	}
}

func TestGeoInconsistencyDetector(t *testing.T) {
	nyc := &geo.Point{Lat: 40.7128, Lon: -74.0060}
	nycIP := &iplookup.Location{Latitude: 40.73, Longitude: -73.99}
	laIP := &iplookup.Location{Latitude: 34.0522, Longitude: -118.2437}

	tests := []struct {
		name     string
		device   *geo.Point
		resolved *iplookup.Location
		flagged  bool
	}{
		{"no device location", nil, laIP, false},
		{"ip not resolvable", nyc, nil, false},
		{"device near ip", nyc, nycIP, false},
		{"device a continent away", nyc, laIP, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &geoInconsistencyDetector{resolver: &stubResolver{location: tt.resolved}}

			input := testInput()
			input.DeviceLocation = tt.device

			signal, err := d.Detect(context.Background(), input)
			require.NoError(t, err)

			event, ok := signal.Event()
			require.Equal(t, tt.flagged, ok)
			if ok {
				require.Equal(t, EventGeoInconsistency, event.Type)
				require.Equal(t, SeverityMedium, event.Severity)
				require.Greater(t, event.Metadata["distance_km"].(float64), 100.0)
			}
		})
	}
}

func TestGeoInconsistencyDetectorWithoutResolver(t *testing.T) {
	d := &geoInconsistencyDetector{}

	input := testInput()
	input.DeviceLocation = &geo.Point{Lat: 40.7128, Lon: -74.0060}

	signal, err := d.Detect(context.Background(), input)
	require.NoError(t, err)
	_, ok := signal.Event()
	require.False(t, ok)
}

func TestCoordinateSpoofDetector(t *testing.T) {
	tests := []struct {
		name    string
		device  *geo.Point
		count   int
		flagged bool
	}{
		{"no coordinates", nil, 50, false},
		{"first vote at this spot", &geo.Point{Lat: 1, Lon: 2}, 1, false},
		{"ten prior repeats", &geo.Point{Lat: 1, Lon: 2}, 11, false},
		{"eleven prior repeats", &geo.Point{Lat: 1, Lon: 2}, 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &coordinateSpoofDetector{patterns: &stubPatterns{coordinateCount: tt.count}}

			input := testInput()
			input.DeviceLocation = tt.device

			signal, err := d.Detect(context.Background(), input)
			require.NoError(t, err)

			event, ok := signal.Event()
			require.Equal(t, tt.flagged, ok)
			if ok {
				require.Equal(t, EventCoordinateSpoofing, event.Type)
				require.Equal(t, SeverityHigh, event.Severity)
				require.Equal(t, tt.count-1, event.Metadata["prior_repeats"])
			}
		})
	}
}

func TestVPNProxyDetectorSilentWithoutClient(t *testing.T) {
	d := &vpnProxyDetector{}

	signal, err := d.Detect(context.Background(), testInput())
	require.NoError(t, err)
	_, ok := signal.Event()
	require.False(t, ok)
}

// stubReputation implements iplookup.ReputationClient.
type stubReputation struct {
	reputation *iplookup.Reputation
}

func (s *stubReputation) Lookup(context.Context, string) (*iplookup.Reputation, error) {
	return s.reputation, nil
}

func TestVPNProxyDetectorWithClient(t *testing.T) {
	clean := &vpnProxyDetector{reputation: &stubReputation{reputation: &iplookup.Reputation{}}}
	signal, err := clean.Detect(context.Background(), testInput())
	require.NoError(t, err)
	_, ok := signal.Event()
	require.False(t, ok)

	vpn := &vpnProxyDetector{reputation: &stubReputation{reputation: &iplookup.Reputation{IsVPN: true}}}
	signal, err = vpn.Detect(context.Background(), testInput())
	require.NoError(t, err)
	event, ok := signal.Event()
	require.True(t, ok)
	require.Equal(t, EventVPNProxy, event.Type)
	require.Equal(t, SeverityMedium, event.Severity)
}
