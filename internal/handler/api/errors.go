package api

import (
	"net/http"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/handler/httperr"
	"ciba-checkout/internal/handler/middleware"
	"ciba-checkout/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// abortWithUsecaseError maps usecase sentinels to their wire form.
func abortWithUsecaseError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errs.Is(err, errs.ErrUnauthenticated):
		httperr.AbortWithKind(c, http.StatusUnauthorized, httperr.KindUnauthenticated, err, "Unauthenticated", nil)
	case errs.Is(err, errs.ErrEmptyPayload):
		httperr.AbortWithKind(c, http.StatusUnprocessableEntity, httperr.KindEmptyPayload, err, "Cart is empty", nil)
	case errs.Is(err, errs.ErrAuthorizationNotFound):
		httperr.AbortWithKind(c, http.StatusNotFound, httperr.KindNotFound, err, "Authorization request not found", nil)
	case errs.Is(err, errs.ErrForbidden):
		httperr.AbortWithKind(c, http.StatusForbidden, httperr.KindForbidden, err, "Authorization request belongs to another user", nil)
	case errs.Is(err, errs.ErrAlreadyTerminal):
		httperr.AbortWithKind(c, http.StatusConflict, httperr.KindAlreadyTerminal, err, "Authorization request already concluded", nil)
	case errs.Is(err, cart.ErrEmptyProductID),
		errs.Is(err, cart.ErrInvalidQuantity),
		errs.Is(err, cart.ErrNegativePrice),
		errs.Is(err, authreq.ErrInvalidDecision):
		httperr.AbortWithKind(c, http.StatusBadRequest, httperr.KindInvalidRequest, err, err.Error(), nil)
	default:
		httperr.AbortWithKind(c, http.StatusInternalServerError, httperr.KindInternal, err, fallbackMsg, nil)
	}
}

func abortInvalidRequest(c *gin.Context, err error, msg string) {
	httperr.AbortWithKind(c, http.StatusBadRequest, httperr.KindInvalidRequest, err, msg, nil)
}

// currentUser aborts with 401 when the auth middleware did not identify the caller.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok || id == uuid.Nil {
		httperr.AbortWithKind(c, http.StatusUnauthorized, httperr.KindUnauthenticated, errs.ErrUnauthenticated, "Unauthorized", nil)
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortInvalidRequest(c, err, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}
