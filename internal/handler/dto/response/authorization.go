package response

import (
	"encoding/json"
	"math"

	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/queries"
)

// AuthorizationResponse mirrors a backchannel authentication response.
type AuthorizationResponse struct {
	AuthReqID      string `json:"auth_req_id"`
	BindingMessage string `json:"binding_message"`
	ExpiresAt      int64  `json:"expires_at"`
	ExpiresIn      int64  `json:"expires_in"`
	Interval       int64  `json:"interval"`
}

func FromInitiateResult(r *commands.InitiateResult, nowUnix int64) *AuthorizationResponse {
	expiresIn := r.ExpiresAt.Unix() - nowUnix
	if expiresIn < 0 {
		expiresIn = 0
	}
	return &AuthorizationResponse{
		AuthReqID:      r.RequestID.String(),
		BindingMessage: r.BindingMessage,
		ExpiresAt:      r.ExpiresAt.Unix(),
		ExpiresIn:      expiresIn,
		Interval:       ceilSeconds(r.Interval.Seconds()),
	}
}

type StatusResponse struct {
	AuthReqID string          `json:"auth_req_id"`
	State     string          `json:"state"`
	Result    json.RawMessage `json:"result,omitempty"`
	// NextPollAfterMs is set while the request is pending.
	NextPollAfterMs int64 `json:"next_poll_after_ms,omitempty"`
}

func FromStatusView(v *queries.AuthorizationView) *StatusResponse {
	return &StatusResponse{
		AuthReqID:       v.RequestID.String(),
		State:           v.State.String(),
		Result:          v.Result,
		NextPollAfterMs: v.NextPollAfter.Milliseconds(),
	}
}

type SlowDownDetail struct {
	NextPollAfterMs int64 `json:"next_poll_after_ms"`
}

type ApprovalResponse struct {
	AuthReqID      string `json:"auth_req_id"`
	BindingMessage string `json:"binding_message"`
	State          string `json:"state"`
	ExpiresAt      int64  `json:"expires_at"`
}

func FromApprovalView(v *queries.AuthorizationView) *ApprovalResponse {
	return &ApprovalResponse{
		AuthReqID:      v.RequestID.String(),
		BindingMessage: v.BindingMessage,
		State:          v.State.String(),
		ExpiresAt:      v.ExpiresAt.Unix(),
	}
}

type DecisionResponse struct {
	AuthReqID string `json:"auth_req_id"`
	State     string `json:"state"`
}

func FromDecideResult(r *commands.DecideResult) *DecisionResponse {
	return &DecisionResponse{AuthReqID: r.RequestID.String(), State: r.State.String()}
}

func ceilSeconds(s float64) int64 {
	return int64(math.Ceil(s))
}
