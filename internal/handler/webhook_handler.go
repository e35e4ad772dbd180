package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	svc          *service.WebhookService
	webhookToken string
}

func NewWebhookHandler(svc *service.WebhookService, webhookToken string) *WebhookHandler {
	return &WebhookHandler{svc: svc, webhookToken: webhookToken}
}

// HandleAsaas receives payment events from the Asaas gateway. Replays of an
// already processed event answer 200 with the stored status so the gateway
// stops retrying.
func (h *WebhookHandler) HandleAsaas(c *gin.Context) {
	if h.webhookToken != "" && c.GetHeader("asaas-access-token") != h.webhookToken {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid webhook token"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unreadable body"})
		return
	}
	var env service.WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Event == "" || env.Payment == nil || env.Payment.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "malformed event payload"})
		return
	}

	result, err := h.svc.ProcessEvent(&env, body)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "payment not found"})
			return
		}
		log.Printf("[WEBHOOK] event=%s payment=%s failed: %v", env.Event, env.Payment.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "event processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": result.Status})
}
