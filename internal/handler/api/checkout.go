package api

import (
	"math"
	"net/http"
	"strconv"

	resdto "ciba-checkout/internal/handler/dto/response"
	"ciba-checkout/internal/handler/httperr"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout commands.CheckoutCommands
	poll     commands.PollCommands
	clock    clock.Clock
}

func NewCheckoutHandler(checkout commands.CheckoutCommands, poll commands.PollCommands, clk clock.Clock) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, poll: poll, clock: clk}
}

// @Summary Checkout with out-of-band approval
// @Description Creates an authorization request for the current cart and streams its progress as server-sent events until exactly one terminal event
// @Tags checkout
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event stream"
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/checkout [post]
func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	s, err := h.checkout.StartCheckout(c.Request.Context(), userID)
	if err != nil {
		abortWithUsecaseError(c, err, "Checkout failed")
		return
	}
	// a consumer that leaves early cancels the poll
	defer s.Abandon()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	for {
		select {
		case ev, open := <-s.Events():
			if !open {
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// @Summary Create authorization request
// @Description Creates a pending authorization request for the current cart without waiting for the decision
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 201 {object} resdto.AuthorizationResponse
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/checkout/authorizations [post]
func (h *CheckoutHandler) CreateAuthorization(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.checkout.RequestAuthorization(c.Request.Context(), userID)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to create authorization request")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromInitiateResult(result, h.clock.Now().Unix()))
}

// @Summary Poll authorization status
// @Description Returns the state of the caller's authorization request. Approved requests are completed on first observation.
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Param id path string true "Authorization request ID"
// @Success 200 {object} resdto.StatusResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/checkout/authorizations/{id} [get]
func (h *CheckoutHandler) GetAuthorizationStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.poll.Poll(c.Request.Context(), id, userID)
	if err != nil {
		if errs.Is(err, errs.ErrSlowDown) && view != nil {
			c.Header("Retry-After", strconv.FormatInt(int64(math.Ceil(view.NextPollAfter.Seconds())), 10))
			httperr.AbortWithKind(c, http.StatusTooManyRequests, httperr.KindSlowDown, err, "Polling too frequently",
				resdto.SlowDownDetail{NextPollAfterMs: view.NextPollAfter.Milliseconds()})
			return
		}
		abortWithUsecaseError(c, err, "Failed to read authorization request")
		return
	}
	c.JSON(http.StatusOK, resdto.FromStatusView(view))
}
