package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"geovote/internal/ratelimit/models"
	"geovote/internal/ratelimit/ports/mocks"
	"geovote/internal/ratelimit/store/memory"
)

type AdmissionServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func TestAdmissionServiceSuite(t *testing.T) {
	suite.Run(t, new(AdmissionServiceSuite))
}

func (s *AdmissionServiceSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(memory.New(), WithLogger(logger))
	s.Require().NoError(err)
	s.service = svc
}

func (s *AdmissionServiceSuite) TestNew() {
	s.Run("requires counter store", func() {
		_, err := New(nil)
		s.Require().Error(err)
	})

	s.Run("defaults are applied", func() {
		svc, err := New(memory.New())
		s.Require().NoError(err)
		s.NotNil(svc)
	})
}

func (s *AdmissionServiceSuite) TestAdmit() {
	s.Run("admits under the limit", func() {
		result, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-hash-1", "match-1")
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(5, result.Limit)
		s.Equal(4, result.Remaining)
	})

	s.Run("denies past the limit", func() {
		for range 5 {
			_, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-hash-2", "match-1")
			s.Require().NoError(err)
		}
		result, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-hash-2", "match-1")
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
	})

	s.Run("scopes are independent", func() {
		for range 5 {
			_, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-hash-3", "match-1")
			s.Require().NoError(err)
		}
		result, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-hash-3", "match-2")
		s.Require().NoError(err)
		s.True(result.Allowed, "a fresh match scope must have a fresh budget")
	})

	s.Run("purposes are independent", func() {
		for range 5 {
			_, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "shared-hash", "match-1")
			s.Require().NoError(err)
		}
		result, err := s.service.Admit(s.ctx, models.PurposeVoteIP, "shared-hash", "match-1")
		s.Require().NoError(err)
		s.True(result.Allowed)
	})

	s.Run("fourth vote against a 3-per-minute rule is denied with zero remaining", func() {
		rules := map[models.Purpose]models.Rule{
			models.PurposeVoteFingerprint: {Limit: 3, Window: time.Minute},
		}
		svc, err := New(memory.New(), WithRules(rules))
		s.Require().NoError(err)

		for i := range 3 {
			result, err := svc.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-strict", "match-1")
			s.Require().NoError(err)
			s.Require().True(result.Allowed, "vote %d should be admitted", i+1)
		}

		result, err := svc.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-strict", "match-1")
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
	})

	s.Run("unknown purpose is denied", func() {
		result, err := s.service.Admit(s.ctx, models.Purpose("mystery"), "id", "")
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(60, result.RetryAfter)
	})
}

func (s *AdmissionServiceSuite) TestAdmitFailsOpen() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	counters := mocks.NewMockCounterStore(ctrl)
	counters.EXPECT().
		Allow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(counters, WithLogger(logger))
	s.Require().NoError(err)

	result, err := svc.Admit(s.ctx, models.PurposeVoteIP, "ip-hash", "match-1")
	s.Require().NoError(err, "store failure must not surface as an error")
	s.True(result.Allowed, "store failure must admit the request")
	s.True(result.FailedOpen)
}

func (s *AdmissionServiceSuite) TestReset() {
	for range 5 {
		_, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-reset", "match-1")
		s.Require().NoError(err)
	}
	denied, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-reset", "match-1")
	s.Require().NoError(err)
	s.Require().False(denied.Allowed)

	s.Require().NoError(s.service.Reset(s.ctx, models.PurposeVoteFingerprint, "fp-reset", "match-1"))

	allowed, err := s.service.Admit(s.ctx, models.PurposeVoteFingerprint, "fp-reset", "match-1")
	s.Require().NoError(err)
	s.True(allowed.Allowed)
}
