package api

import (
	"net/http"

	reqdto "slot-engine/internal/handler/dto/request"
	resdto "slot-engine/internal/handler/dto/response"
	"slot-engine/internal/handler/httperr"
	"slot-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	cmds commands.SubscriptionCommands
}

func NewSubscriptionHandler(cmds commands.SubscriptionCommands) *SubscriptionHandler {
	return &SubscriptionHandler{cmds: cmds}
}

// @Summary Subscribe
// @Description Ask to be notified when a slot, or any slot matching the criteria, is freed
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body reqdto.SubscribeRequest true "Subscription request"
// @Success 201 {object} resdto.SubscriptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req reqdto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	sub, err := h.cmds.Subscribe(c.Request.Context(), req.ToInput())
	if err != nil {
		abortWithUseCaseError(c, err, "Subscribe failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSubscription(sub))
}

// @Summary Activate subscription
// @Tags subscriptions
// @Produce json
// @Param token path string true "Subscription token"
// @Success 200 {object} resdto.SubscriptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /subscriptions/{token}/activate [post]
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	token, ok := pathToken(c)
	if !ok {
		return
	}
	sub, err := h.cmds.Activate(c.Request.Context(), token)
	if err != nil {
		abortWithUseCaseError(c, err, "Activate failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromSubscription(sub))
}

// @Summary Unsubscribe
// @Description Cancel a subscription. Repeating the call is harmless.
// @Tags subscriptions
// @Produce json
// @Param token path string true "Subscription token"
// @Success 200 {object} resdto.SubscriptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /subscriptions/{token}/unsubscribe [post]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	token, ok := pathToken(c)
	if !ok {
		return
	}
	sub, err := h.cmds.Unsubscribe(c.Request.Context(), token)
	if err != nil {
		abortWithUseCaseError(c, err, "Unsubscribe failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromSubscription(sub))
}

func pathToken(c *gin.Context) (uuid.UUID, bool) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid token", nil)
		return uuid.Nil, false
	}
	return token, true
}
