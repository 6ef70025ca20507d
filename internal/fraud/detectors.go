package fraud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"geovote/internal/geo"
	"geovote/internal/iplookup"
)

// Detection thresholds.
const (
	// maxIPsPerFingerprint is how many distinct IPs one fingerprint may
	// vote from in a match before it looks shared or spoofed.
	maxIPsPerFingerprint = 3

	// maxFingerprintsPerIP is how many distinct fingerprints one IP may
	// vote with in a match before it looks like a vote farm.
	maxFingerprintsPerIP = 5

	// rapidVoteInterval is the minimum believable gap between two manual
	// votes from the same fingerprint.
	rapidVoteInterval = 10 * time.Second

	// rapidVoteScan bounds how many recent timestamps the rapid-voting
	// detector inspects. Older history carries no extra signal: a burst is
	// by definition recent.
	rapidVoteScan = 20

	// geoInconsistencyKm is the distance between the IP-derived and
	// device-reported locations beyond which they cannot both be honest.
	geoInconsistencyKm = 100.0

	// maxExactCoordinateRepeats is how many prior votes may share a
	// byte-identical coordinate pair before it reads as injected. Organic
	// GPS fixes drift at the sixth decimal.
	maxExactCoordinateRepeats = 10
)

// PatternReader is the slice of the pattern tracker the detectors consume.
type PatternReader interface {
	UniqueIPCount(ctx context.Context, matchID, fingerprintHash string) (int, error)
	UniqueFingerprintCount(ctx context.Context, matchID, ipHash string) (int, error)
	RecentVoteTimes(ctx context.Context, fingerprintHash string, limit int) ([]time.Time, error)
	CoordinateCount(ctx context.Context, matchID, exactCoordKey string) (int, error)
}

// Detector inspects one vote and reports at most one finding. Detectors
// must be independent: they share no state and any one may fail without
// affecting the others.
type Detector interface {
	Name() string
	Detect(ctx context.Context, input Input) (Signal, error)
}

func newEvent(input Input, eventType EventType, severity Severity, reason string, metadata map[string]any) Event {
	event := Event{
		ID:              uuid.New(),
		MatchID:         input.MatchID,
		FingerprintHash: input.FingerprintHash,
		IPHash:          input.IPHash,
		Type:            eventType,
		Severity:        severity,
		Reason:          reason,
		Metadata:        metadata,
		DetectedAt:      input.At,
	}
	if input.VoteID != uuid.Nil {
		voteID := input.VoteID
		event.VoteID = &voteID
	}
	return event
}

// multiIPDetector flags a fingerprint that has voted from too many
// distinct IPs within one match.
type multiIPDetector struct {
	patterns PatternReader
}

func (d *multiIPDetector) Name() string { return "multiple_ips" }

func (d *multiIPDetector) Detect(ctx context.Context, input Input) (Signal, error) {
	count, err := d.patterns.UniqueIPCount(ctx, input.MatchID, input.FingerprintHash)
	if err != nil {
		return NoSignal(), fmt.Errorf("unique ip count: %w", err)
	}
	if count <= maxIPsPerFingerprint {
		return NoSignal(), nil
	}
	return Flag(newEvent(input, EventMultipleIPs, SeverityMedium,
		fmt.Sprintf("fingerprint voted from %d distinct IPs", count),
		map[string]any{"unique_ips": count},
	)), nil
}

// multiFingerprintDetector flags an IP that has voted with too many
// distinct fingerprints within one match.
type multiFingerprintDetector struct {
	patterns PatternReader
}

func (d *multiFingerprintDetector) Name() string { return "multiple_fingerprints" }

func (d *multiFingerprintDetector) Detect(ctx context.Context, input Input) (Signal, error) {
	count, err := d.patterns.UniqueFingerprintCount(ctx, input.MatchID, input.IPHash)
	if err != nil {
		return NoSignal(), fmt.Errorf("unique fingerprint count: %w", err)
	}
	if count <= maxFingerprintsPerIP {
		return NoSignal(), nil
	}
	return Flag(newEvent(input, EventMultipleFingerprints, SeverityHigh,
		fmt.Sprintf("ip voted with %d distinct fingerprints", count),
		map[string]any{"unique_fingerprints": count},
	)), nil
}

// rapidVotingDetector flags a fingerprint whose recent votes arrive faster
// than a person plausibly clicks.
type rapidVotingDetector struct {
	patterns PatternReader
}

func (d *rapidVotingDetector) Name() string { return "rapid_voting" }

func (d *rapidVotingDetector) Detect(ctx context.Context, input Input) (Signal, error) {
	times, err := d.patterns.RecentVoteTimes(ctx, input.FingerprintHash, rapidVoteScan)
	if err != nil {
		return NoSignal(), fmt.Errorf("recent vote times: %w", err)
	}

	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		if gap >= 0 && gap < rapidVoteInterval {
			return Flag(newEvent(input, EventRapidVoting, SeverityLow,
				fmt.Sprintf("consecutive votes %s apart", gap.Round(time.Millisecond)),
				map[string]any{"gap_ms": gap.Milliseconds()},
			)), nil
		}
	}
	return NoSignal(), nil
}

// botSignatures are lowercase substrings of automation tools that show up
// in fabricated user agents. The useragent parser catches declared
// crawlers; this list catches scripting clients it does not classify.
var botSignatures = []string{
	"headless",
	"phantomjs",
	"selenium",
	"webdriver",
	"puppeteer",
	"playwright",
	"curl/",
	"wget/",
	"python-requests",
	"python-urllib",
	"go-http-client",
	"scrapy",
	"node-fetch",
	"axios/",
}

// userAgentDetector flags empty user agents and known automation clients.
type userAgentDetector struct{}

func (d *userAgentDetector) Name() string { return "suspicious_user_agent" }

func (d *userAgentDetector) Detect(_ context.Context, input Input) (Signal, error) {
	raw := strings.TrimSpace(input.UserAgent)
	if raw == "" {
		return Flag(newEvent(input, EventSuspiciousUserAgent, SeverityMedium,
			"empty user agent", nil,
		)), nil
	}

	if ua := useragent.New(raw); ua.Bot() {
		return Flag(newEvent(input, EventSuspiciousUserAgent, SeverityMedium,
			"user agent identifies as a bot",
			map[string]any{"user_agent": raw},
		)), nil
	}

	lowered := strings.ToLower(raw)
	for _, signature := range botSignatures {
		if strings.Contains(lowered, signature) {
			return Flag(newEvent(input, EventSuspiciousUserAgent, SeverityMedium,
				"user agent matches automation signature",
				map[string]any{"user_agent": raw, "signature": signature},
			)), nil
		}
	}
	return NoSignal(), nil
}

// geoInconsistencyDetector flags votes whose device-reported position is
// too far from where the IP places them. Needs both locations; either one
// missing means no signal.
type geoInconsistencyDetector struct {
	resolver iplookup.Resolver
}

func (d *geoInconsistencyDetector) Name() string { return "geo_inconsistency" }

func (d *geoInconsistencyDetector) Detect(ctx context.Context, input Input) (Signal, error) {
	if d.resolver == nil || input.DeviceLocation == nil || input.ClientIP == "" {
		return NoSignal(), nil
	}

	ipLocation, err := d.resolver.Resolve(ctx, input.ClientIP)
	if err != nil {
		return NoSignal(), fmt.Errorf("resolve ip location: %w", err)
	}
	if ipLocation == nil {
		return NoSignal(), nil
	}

	distance := input.DeviceLocation.Distance(geo.Point{Lat: ipLocation.Latitude, Lon: ipLocation.Longitude})
	if distance <= geoInconsistencyKm {
		return NoSignal(), nil
	}
	return Flag(newEvent(input, EventGeoInconsistency, SeverityMedium,
		fmt.Sprintf("device location %.0fkm from ip location", distance),
		map[string]any{"distance_km": distance},
	)), nil
}

// coordinateSpoofDetector flags coordinate pairs repeated verbatim across
// many votes in a match.
type coordinateSpoofDetector struct {
	patterns PatternReader
}

func (d *coordinateSpoofDetector) Name() string { return "coordinate_spoofing" }

func (d *coordinateSpoofDetector) Detect(ctx context.Context, input Input) (Signal, error) {
	if input.DeviceLocation == nil {
		return NoSignal(), nil
	}

	key := geo.ExactKey(input.DeviceLocation.Lat, input.DeviceLocation.Lon)
	count, err := d.patterns.CoordinateCount(ctx, input.MatchID, key)
	if err != nil {
		return NoSignal(), fmt.Errorf("coordinate count: %w", err)
	}

	// The tracker has already counted this vote, so discount it when
	// judging prior repeats.
	prior := count - 1
	if prior <= maxExactCoordinateRepeats {
		return NoSignal(), nil
	}
	return Flag(newEvent(input, EventCoordinateSpoofing, SeverityHigh,
		fmt.Sprintf("%d prior votes share the exact coordinates", prior),
		map[string]any{"prior_repeats": prior},
	)), nil
}

// vpnProxyDetector is the reputation extension point. Without a client it
// stays silent; with one wired, anonymized origins are flagged.
type vpnProxyDetector struct {
	reputation iplookup.ReputationClient
}

func (d *vpnProxyDetector) Name() string { return "vpn_proxy" }

func (d *vpnProxyDetector) Detect(ctx context.Context, input Input) (Signal, error) {
	if d.reputation == nil || input.ClientIP == "" {
		return NoSignal(), nil
	}

	rep, err := d.reputation.Lookup(ctx, input.ClientIP)
	if err != nil {
		return NoSignal(), fmt.Errorf("reputation lookup: %w", err)
	}
	if rep == nil || (!rep.IsVPN && !rep.IsProxy && !rep.IsHosting) {
		return NoSignal(), nil
	}
	return Flag(newEvent(input, EventVPNProxy, SeverityMedium,
		"vote originates from an anonymized network",
		map[string]any{"vpn": rep.IsVPN, "proxy": rep.IsProxy, "hosting": rep.IsHosting},
	)), nil
}
