package request

// DecisionRequest is accepted as JSON on the push surface and as a form on the popup surface.
type DecisionRequest struct {
	Decision string `json:"decision" form:"decision" binding:"required,oneof=approve deny"`
}
