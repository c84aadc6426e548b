package api

import (
	"net/http"
	"net/url"

	"ciba-checkout/internal/domain/authreq"
	reqdto "ciba-checkout/internal/handler/dto/request"
	resdto "ciba-checkout/internal/handler/dto/response"
	"ciba-checkout/internal/pkg/config"
	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/queries"
	"ciba-checkout/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApprovalHandler struct {
	approvals commands.ApprovalCommands
	q         queries.AuthorizationQueries
	cfg       config.ApprovalConfig
}

func NewApprovalHandler(approvals commands.ApprovalCommands, q queries.AuthorizationQueries, cfg config.Config) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals, q: q, cfg: cfg.Approval}
}

// @Summary Get authorization request for approval
// @Description Shows the approver what they are asked to sign off on
// @Tags approvals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Authorization request ID"
// @Success 200 {object} resdto.ApprovalResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/approvals/{id} [get]
func (h *ApprovalHandler) GetApproval(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.q.Describe(c.Request.Context(), id, userID)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to read authorization request")
		return
	}
	c.JSON(http.StatusOK, resdto.FromApprovalView(view))
}

// @Summary Decide authorization request (push)
// @Description Records approve or deny from the approver's device. Repeating the recorded decision is accepted.
// @Tags approvals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Authorization request ID"
// @Param request body reqdto.DecisionRequest true "Decision"
// @Success 200 {object} resdto.DecisionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/approvals/{id} [post]
func (h *ApprovalHandler) Decide(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err, "Invalid request")
		return
	}

	result, err := h.decide(c, id, userID, req.Decision, shared.ChannelPush)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to record decision")
		return
	}
	c.JSON(http.StatusOK, resdto.FromDecideResult(result))
}

// @Summary Decide authorization request (popup)
// @Description Form post from the approval popup; redirects to the configured return URL
// @Tags approvals
// @Accept x-www-form-urlencoded
// @Security BearerAuth
// @Param id path string true "Authorization request ID"
// @Param decision formData string true "approve or deny"
// @Success 303 "See Other"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/approvals/{id}/popup [post]
func (h *ApprovalHandler) DecidePopup(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req reqdto.DecisionRequest
	if err := c.ShouldBind(&req); err != nil {
		abortInvalidRequest(c, err, "Invalid request")
		return
	}

	result, err := h.decide(c, id, userID, req.Decision, shared.ChannelPopup)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to record decision")
		return
	}

	target, err := url.Parse(h.cfg.PopupReturnURL)
	if err != nil {
		abortWithUsecaseError(c, err, "Invalid popup return URL")
		return
	}
	query := target.Query()
	query.Set("auth_req_id", result.RequestID.String())
	query.Set("state", result.State.String())
	target.RawQuery = query.Encode()
	c.Redirect(http.StatusSeeOther, target.String())
}

func (h *ApprovalHandler) decide(c *gin.Context, id, userID uuid.UUID, decision, channel string) (*commands.DecideResult, error) {
	d, err := authreq.NewDecision(decision)
	if err != nil {
		return nil, err
	}
	return h.approvals.Decide(c.Request.Context(), commands.DecideRequest{
		RequestID: id,
		UserID:    userID,
		Decision:  d,
		Channel:   channel,
	})
}
