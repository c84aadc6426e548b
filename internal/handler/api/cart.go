package api

import (
	"net/http"

	reqdto "ciba-checkout/internal/handler/dto/request"
	resdto "ciba-checkout/internal/handler/dto/response"
	"ciba-checkout/internal/usecase/commands"
	"ciba-checkout/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cmds commands.CartCommands
	q    queries.CartQueries
}

func NewCartHandler(cmds commands.CartCommands, q queries.CartQueries) *CartHandler {
	return &CartHandler{cmds: cmds, q: q}
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} httperr.Response
// @Router /api/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.q.GetCart(c.Request.Context(), userID)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

// @Summary Replace cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PutCartRequest true "Cart items"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/cart [put]
func (h *CartHandler) PutCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req reqdto.PutCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err, "Invalid request")
		return
	}
	view, err := h.cmds.ReplaceCart(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to store cart")
		return
	}
	c.JSON(http.StatusOK, resdto.FromCartView(view))
}
