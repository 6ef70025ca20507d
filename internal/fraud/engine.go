package fraud

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"geovote/internal/fraud/metrics"
	"geovote/internal/iplookup"
	"geovote/pkg/requestcontext"
)

// detectTimeout bounds the whole fan-out. Evaluation may outlive the
// inbound request (the caller detaches it from request cancellation), so
// the engine carries its own ceiling.
const detectTimeout = 5 * time.Second

// Engine fans a vote out to every detector concurrently and joins all
// results. Failures never propagate across detectors: each one settles on
// its own, and the engine proceeds with whatever subset succeeded.
type Engine struct {
	detectors []Detector
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithResolver enables the geo inconsistency detector.
func WithResolver(resolver iplookup.Resolver) EngineOption {
	return func(e *Engine) {
		e.detectors = append(e.detectors, &geoInconsistencyDetector{resolver: resolver})
	}
}

// WithReputationClient activates the VPN/proxy extension point.
func WithReputationClient(client iplookup.ReputationClient) EngineOption {
	return func(e *Engine) {
		for _, d := range e.detectors {
			if vpn, ok := d.(*vpnProxyDetector); ok {
				vpn.reputation = client
				return
			}
		}
	}
}

// WithDetectors replaces the detector set. Intended for tests.
func WithDetectors(detectors ...Detector) EngineOption {
	return func(e *Engine) {
		e.detectors = detectors
	}
}

// NewEngine builds the standard detector set over the given pattern reads.
// The geo detector joins only when a resolver is configured; the VPN
// detector is always present but silent until a reputation client is wired.
func NewEngine(patterns PatternReader, opts ...EngineOption) (*Engine, error) {
	if patterns == nil {
		return nil, errors.New("pattern reader is required")
	}

	e := &Engine{
		detectors: []Detector{
			&multiIPDetector{patterns: patterns},
			&multiFingerprintDetector{patterns: patterns},
			&rapidVotingDetector{patterns: patterns},
			&userAgentDetector{},
			&coordinateSpoofDetector{patterns: patterns},
			&vpnProxyDetector{},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes all detectors against the input and returns the produced
// events plus how many detectors errored. Errors are logged here and do
// not surface; a failed detector simply contributes no signal.
func (e *Engine) Run(ctx context.Context, input Input) (events []Event, failed int) {
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	type result struct {
		signal Signal
		err    error
	}
	results := make([]result, len(e.detectors))

	var wg sync.WaitGroup
	for i, detector := range e.detectors {
		wg.Go(func() {
			start := time.Now()
			signal, err := detector.Detect(ctx, input)
			e.metrics.ObserveDetectorLatency(detector.Name(), time.Since(start))
			results[i] = result{signal: signal, err: err}
		})
	}
	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			failed++
			e.metrics.IncrementDetectorFailure(e.detectors[i].Name())
			e.logger.WarnContext(ctx, "detector failed, treating as no signal",
				"detector", e.detectors[i].Name(),
				"match_id", input.MatchID,
				"error", r.err,
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}
		if event, ok := r.signal.Event(); ok {
			events = append(events, event)
		}
	}
	return events, failed
}

// Size returns how many detectors the engine runs.
func (e *Engine) Size() int {
	return len(e.detectors)
}
