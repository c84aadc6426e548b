package httperr

import (
	"github.com/gin-gonic/gin"
)

// Error kinds exposed on the wire.
const (
	KindInvalidRequest  = "invalid_request"
	KindUnauthenticated = "unauthenticated"
	KindEmptyPayload    = "empty_payload"
	KindNotFound        = "not_found"
	KindForbidden       = "forbidden"
	KindAlreadyTerminal = "already_terminal"
	KindSlowDown        = "slow_down"
	KindInternal        = "internal"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Kind    string `json:"kind,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithKind(c, status, "", err, msg, detail)
}

func AbortWithKind(c *gin.Context, status int, kind string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Kind = kind
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
