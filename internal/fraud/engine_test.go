package fraud_test

//go:generate mockgen -source=detectors.go -destination=mocks/detectors-mocks.go -package=mocks PatternReader,Detector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"geovote/internal/fraud"
	"geovote/internal/fraud/mocks"
	"geovote/internal/iplookup"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func flaggedEvent(severity fraud.Severity, eventType fraud.EventType) fraud.Event {
	return fraud.Event{
		ID:         uuid.New(),
		MatchID:    "match-1",
		Type:       eventType,
		Severity:   severity,
		DetectedAt: time.Now(),
	}
}

func TestNewEngineRequiresPatterns(t *testing.T) {
	_, err := fraud.NewEngine(nil)
	require.Error(t, err)
}

func TestNewEngineDefaultDetectorSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	patterns := mocks.NewMockPatternReader(ctrl)

	engine, err := fraud.NewEngine(patterns, fraud.WithLogger(discardLogger()))
	require.NoError(t, err)
	// Without a resolver the geo detector stays out; the VPN extension
	// point is always present.
	require.Equal(t, 6, engine.Size())

	withGeo, err := fraud.NewEngine(patterns,
		fraud.WithLogger(discardLogger()),
		fraud.WithResolver(iplookup.NoopResolver{}),
	)
	require.NoError(t, err)
	require.Equal(t, 7, withGeo.Size())
}

func TestEngineRunJoinsAllDetectors(t *testing.T) {
	ctrl := gomock.NewController(t)
	patterns := mocks.NewMockPatternReader(ctrl)

	flagging := mocks.NewMockDetector(ctrl)
	flagging.EXPECT().Detect(gomock.Any(), gomock.Any()).
		Return(fraud.Flag(flaggedEvent(fraud.SeverityMedium, fraud.EventMultipleIPs)), nil)
	flagging.EXPECT().Name().Return("flagging").AnyTimes()

	silent := mocks.NewMockDetector(ctrl)
	silent.EXPECT().Detect(gomock.Any(), gomock.Any()).Return(fraud.NoSignal(), nil)
	silent.EXPECT().Name().Return("silent").AnyTimes()

	failing := mocks.NewMockDetector(ctrl)
	failing.EXPECT().Detect(gomock.Any(), gomock.Any()).
		Return(fraud.NoSignal(), errors.New("store unreachable"))
	failing.EXPECT().Name().Return("failing").AnyTimes()

	engine, err := fraud.NewEngine(patterns,
		fraud.WithLogger(discardLogger()),
		fraud.WithDetectors(flagging, silent, failing),
	)
	require.NoError(t, err)

	events, failed := engine.Run(context.Background(), fraud.Input{MatchID: "match-1"})
	require.Len(t, events, 1, "one detector flagged")
	require.Equal(t, 1, failed, "one detector failed")
	require.Equal(t, fraud.EventMultipleIPs, events[0].Type)
}

func TestEngineRunDetectorsRunConcurrently(t *testing.T) {
	ctrl := gomock.NewController(t)
	patterns := mocks.NewMockPatternReader(ctrl)

	// Both detectors block until the other has started; the run only
	// finishes if they overlap.
	var started atomic.Int32
	barrier := func(context.Context, fraud.Input) (fraud.Signal, error) {
		started.Add(1)
		deadline := time.Now().Add(2 * time.Second)
		for started.Load() < 2 {
			if time.Now().After(deadline) {
				return fraud.NoSignal(), errors.New("peer never started")
			}
			time.Sleep(time.Millisecond)
		}
		return fraud.NoSignal(), nil
	}

	first := mocks.NewMockDetector(ctrl)
	first.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(barrier)
	first.EXPECT().Name().Return("first").AnyTimes()

	second := mocks.NewMockDetector(ctrl)
	second.EXPECT().Detect(gomock.Any(), gomock.Any()).DoAndReturn(barrier)
	second.EXPECT().Name().Return("second").AnyTimes()

	engine, err := fraud.NewEngine(patterns,
		fraud.WithLogger(discardLogger()),
		fraud.WithDetectors(first, second),
	)
	require.NoError(t, err)

	events, failed := engine.Run(context.Background(), fraud.Input{MatchID: "match-1"})
	require.Empty(t, events)
	require.Zero(t, failed)
}

func TestEngineRunAllDetectorsFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	patterns := mocks.NewMockPatternReader(ctrl)

	var detectors []fraud.Detector
	for range 3 {
		d := mocks.NewMockDetector(ctrl)
		d.EXPECT().Detect(gomock.Any(), gomock.Any()).
			Return(fraud.NoSignal(), errors.New("store unreachable"))
		d.EXPECT().Name().Return("broken").AnyTimes()
		detectors = append(detectors, d)
	}

	engine, err := fraud.NewEngine(patterns,
		fraud.WithLogger(discardLogger()),
		fraud.WithDetectors(detectors...),
	)
	require.NoError(t, err)

	events, failed := engine.Run(context.Background(), fraud.Input{MatchID: "match-1"})
	require.Empty(t, events)
	require.Equal(t, 3, failed)
}
