package api

import (
	"errors"
	"net/http"

	resdto "giftcard-fulfillment/internal/handler/dto/response"
	"giftcard-fulfillment/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	fulfillmentUseCase usecase.FulfillmentUseCase
}

func NewWebhookHandler(fulfillmentUseCase usecase.FulfillmentUseCase) *WebhookHandler {
	return &WebhookHandler{
		fulfillmentUseCase: fulfillmentUseCase,
	}
}

// @Summary Order webhook
// @Description Receive a shop order event and fulfill any gift-card lines in it
// @Tags webhook
// @Accept json
// @Produce json
// @Param payload body map[string]interface{} true "Raw order event payload"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /webhook/order [post]
func (h *WebhookHandler) HandleOrder(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON payload",
		})
		return
	}

	result, err := h.fulfillmentUseCase.HandleOrderWebhook(c.Request.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoOrder):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payload contains no recognizable order",
			})
		case errors.Is(err, usecase.ErrPoolExhausted):
			// 503 tells the shop to redeliver once the pool is refilled.
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Gift code pool exhausted",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromFulfillmentResult(result))
}
