package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"geovote/internal/fraud"
	"geovote/pkg/platform/sentinel"
	"geovote/pkg/requestcontext"
)

type stubService struct {
	listFilter  fraud.ListFilter
	listResult  []fraud.Event
	listErr     error
	reviewedID  string
	reviewedBy  string
	reviewEvent *fraud.Event
	reviewErr   error
}

func (s *stubService) ListEvents(_ context.Context, filter fraud.ListFilter) ([]fraud.Event, error) {
	s.listFilter = filter
	return s.listResult, s.listErr
}

func (s *stubService) ReviewEvent(_ context.Context, eventID string, reviewer string) (*fraud.Event, error) {
	s.reviewedID = eventID
	s.reviewedBy = reviewer
	return s.reviewEvent, s.reviewErr
}

type HandlerSuite struct {
	suite.Suite
	service *stubService
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.service = &stubService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(s.service, logger).Register(r)
	s.router = r
}

// asReviewer stamps reviewer identity the way the auth middleware would.
func (s *HandlerSuite) asReviewer(req *http.Request) *http.Request {
	return req.WithContext(requestcontext.WithReviewerID(req.Context(), "reviewer-1"))
}

func (s *HandlerSuite) TestListEventsRequiresReviewer() {
	req := httptest.NewRequest(http.MethodGet, "/fraud/events", nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestListEvents() {
	event := fraud.Event{
		ID:       uuid.New(),
		MatchID:  "match-1",
		Type:     fraud.EventRapidVoting,
		Severity: fraud.SeverityLow,
		Reason:   "votes 4s apart",
	}
	s.service.listResult = []fraud.Event{event}

	req := s.asReviewer(httptest.NewRequest(http.MethodGet,
		"/fraud/events?match_id=match-1&severity=low&reviewed=false&limit=10&offset=20", nil))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)

	s.Equal("match-1", s.service.listFilter.MatchID)
	s.Equal(fraud.SeverityLow, s.service.listFilter.Severity)
	s.Require().NotNil(s.service.listFilter.Reviewed)
	s.False(*s.service.listFilter.Reviewed)
	s.Equal(10, s.service.listFilter.Limit)
	s.Equal(20, s.service.listFilter.Offset)

	var resp ListEventsResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(1, resp.Count)
	s.Require().Len(resp.Events, 1)
	s.Equal(event.ID.String(), resp.Events[0].ID)
	s.Equal("rapid_voting", resp.Events[0].Type)
}

func (s *HandlerSuite) TestListEventsRejectsBadSeverity() {
	req := s.asReviewer(httptest.NewRequest(http.MethodGet, "/fraud/events?severity=apocalyptic", nil))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestListEventsRejectsBadReviewedFlag() {
	req := s.asReviewer(httptest.NewRequest(http.MethodGet, "/fraud/events?reviewed=maybe", nil))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestReviewEvent() {
	event := fraud.Event{
		ID:         uuid.New(),
		MatchID:    "match-1",
		Type:       fraud.EventMultipleIPs,
		Severity:   fraud.SeverityMedium,
		Reviewed:   true,
		ReviewedBy: "reviewer-1",
	}
	s.service.reviewEvent = &event

	req := s.asReviewer(httptest.NewRequest(http.MethodPost,
		"/fraud/events/"+event.ID.String()+"/review", nil))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(event.ID.String(), s.service.reviewedID)
	s.Equal("reviewer-1", s.service.reviewedBy)

	var resp EventResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Reviewed)
	s.Equal("reviewer-1", resp.ReviewedBy)
}

func (s *HandlerSuite) TestReviewEventRequiresReviewer() {
	req := httptest.NewRequest(http.MethodPost, "/fraud/events/"+uuid.NewString()+"/review", nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestReviewEventNotFound() {
	s.service.reviewErr = sentinel.ErrNotFound

	req := s.asReviewer(httptest.NewRequest(http.MethodPost,
		"/fraud/events/"+uuid.NewString()+"/review", nil))
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
}
