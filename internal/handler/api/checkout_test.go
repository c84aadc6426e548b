package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/handler/api"
	resdto "ciba-checkout/internal/handler/dto/response"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/stream"
	"ciba-checkout/tests/common/httptest"
	commandsmock "ciba-checkout/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var handlerNow = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

// fakeAuth stands in for the auth middleware: a request carrying any
// Authorization header is treated as coming from userID.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCheckout *commandsmock.MockCheckoutCommands
	mockPoll     *commandsmock.MockPollCommands
	userID       uuid.UUID
	token        string
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCheckout = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.mockPoll = commandsmock.NewMockPollCommands(s.mockCtrl)
	s.userID = uuid.New()
	s.token = "test-token"

	h := api.NewCheckoutHandler(s.mockCheckout, s.mockPoll, clock.NewMockClock(handlerNow))
	g := s.router.Group("/api", fakeAuth(s.userID))
	g.POST("/checkout", h.StartCheckout)
	g.POST("/checkout/authorizations", h.CreateAuthorization)
	g.GET("/checkout/authorizations/:id", h.GetAuthorizationStatus)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func finishedStream(events ...stream.Event) *stream.ResponseStream {
	s := stream.New(len(events))
	last := len(events) - 1
	for _, ev := range events[:last] {
		s.Emit(ev)
	}
	_ = s.BeginAsync()
	_ = s.Finish(events[last])
	return s
}

func (s *CheckoutHandlerTestSuite) TestStartCheckout() {
	url := "/api/checkout"
	reqID := uuid.New()

	s.Run("streams events up to the terminal one", func() {
		result := json.RawMessage(`{"order_id":"o-1"}`)
		st := finishedStream(
			stream.Event{Type: stream.EventAuthorizationRequested, RequestID: reqID, BindingMessage: "Checkout 3 items for $12.25"},
			stream.Event{Type: stream.EventStatus, RequestID: reqID, State: "pending", Attempt: 3},
			stream.Event{Type: stream.EventCompleted, RequestID: reqID, State: "approved", Result: result},
		)
		s.mockCheckout.EXPECT().StartCheckout(gomock.Any(), s.userID).Return(st, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.token)

		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Header().Get("Content-Type"), "text/event-stream")
		s.Equal("no-cache", w.Header().Get("Cache-Control"))

		events := httptest.ParseSSE(s.T(), w.Body.String())
		s.Require().Len(events, 3)
		s.Equal("authorization_requested", events[0].Name)
		s.Equal("status", events[1].Name)
		s.Equal("completed", events[2].Name)

		var last stream.Event
		s.Require().NoError(json.Unmarshal([]byte(events[2].Data), &last))
		s.Equal(reqID, last.RequestID)
		s.JSONEq(string(result), string(last.Result))
	})

	s.Run("rejected ends the stream", func() {
		st := finishedStream(
			stream.Event{Type: stream.EventAuthorizationRequested, RequestID: reqID},
			stream.Event{Type: stream.EventRejected, RequestID: reqID, State: "denied"},
		)
		s.mockCheckout.EXPECT().StartCheckout(gomock.Any(), s.userID).Return(st, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.token)

		events := httptest.ParseSSE(s.T(), w.Body.String())
		s.Require().Len(events, 2)
		s.Equal("rejected", events[1].Name)
	})

	s.Run("empty cart", func() {
		s.mockCheckout.EXPECT().StartCheckout(gomock.Any(), s.userID).
			Return(nil, errs.Mark(errs.New("no items"), errs.ErrEmptyPayload))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "empty_payload")
	})

	s.Run("unauthenticated", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "unauthenticated")
	})

	s.Run("unexpected failure", func() {
		s.mockCheckout.EXPECT().StartCheckout(gomock.Any(), s.userID).Return(nil, errs.New("store down"))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusInternalServerError, "internal")
	})
}

func (s *CheckoutHandlerTestSuite) TestCreateAuthorization() {
	url := "/api/checkout/authorizations"

	s.Run("created", func() {
		reqID := uuid.New()
		s.mockCheckout.EXPECT().RequestAuthorization(gomock.Any(), s.userID).Return(&commands.InitiateResult{
			RequestID:      reqID,
			BindingMessage: "Checkout 3 items for $12.25",
			ExpiresAt:      handlerNow.Add(5 * time.Minute),
			Interval:       1500 * time.Millisecond,
		}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.token)

		var resp resdto.AuthorizationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(reqID.String(), resp.AuthReqID)
		s.Equal("Checkout 3 items for $12.25", resp.BindingMessage)
		s.Equal(handlerNow.Add(5*time.Minute).Unix(), resp.ExpiresAt)
		s.Equal(int64(300), resp.ExpiresIn)
		s.Equal(int64(2), resp.Interval)
	})

	s.Run("empty cart", func() {
		s.mockCheckout.EXPECT().RequestAuthorization(gomock.Any(), s.userID).Return(nil, errs.ErrEmptyPayload)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "empty_payload")
	})
}

func (s *CheckoutHandlerTestSuite) TestGetAuthorizationStatus() {
	reqID := uuid.New()
	url := "/api/checkout/authorizations/" + reqID.String()

	s.Run("pending", func() {
		s.mockPoll.EXPECT().Poll(gomock.Any(), reqID, s.userID).Return(&queries.AuthorizationView{
			RequestID:     reqID,
			State:         authreq.StatePending,
			NextPollAfter: 2 * time.Second,
		}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.token)

		var resp resdto.StatusResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal("pending", resp.State)
		s.Empty(resp.Result)
		s.Equal(int64(2000), resp.NextPollAfterMs)
	})

	s.Run("approved with result", func() {
		s.mockPoll.EXPECT().Poll(gomock.Any(), reqID, s.userID).Return(&queries.AuthorizationView{
			RequestID: reqID,
			State:     authreq.StateApproved,
			Result:    json.RawMessage(`{"order_id":"o-1"}`),
		}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.token)

		var resp resdto.StatusResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal("approved", resp.State)
		s.JSONEq(`{"order_id":"o-1"}`, string(resp.Result))
		s.NotContains(w.Body.String(), "next_poll_after_ms")
	})

	s.Run("slow down", func() {
		s.mockPoll.EXPECT().Poll(gomock.Any(), reqID, s.userID).Return(&queries.AuthorizationView{
			RequestID:     reqID,
			State:         authreq.StatePending,
			NextPollAfter: 1200 * time.Millisecond,
		}, errs.ErrSlowDown)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.token)

		httptest.AssertErrorResponse(s.T(), w, http.StatusTooManyRequests, "slow_down")
		httptest.AssertHeaders(s.T(), w, map[string]string{"Retry-After": "2"})

		var body struct {
			Detail resdto.SlowDownDetail `json:"detail"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
		s.Equal(int64(1200), body.Detail.NextPollAfterMs)
	})

	tests := []struct {
		name       string
		err        error
		expectCode int
		expectKind string
	}{
		{"not found", errs.ErrAuthorizationNotFound, http.StatusNotFound, "not_found"},
		{"other user's request", errs.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"store failure", errs.Wrap(errs.ErrDatabaseOperationFailed, "get"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.mockPoll.EXPECT().Poll(gomock.Any(), reqID, s.userID).Return(nil, tc.err)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.token)
			httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectKind)
		})
	}

	s.Run("malformed id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/checkout/authorizations/not-a-uuid", nil, s.token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "invalid_request")
	})
}
