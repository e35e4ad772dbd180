package handler

import (
	"errors"
	"net/http"
	"strconv"

	"associapro/internal/middleware"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type CredentialHandler struct {
	svc *service.CredentialService
}

func NewCredentialHandler(svc *service.CredentialService) *CredentialHandler {
	return &CredentialHandler{svc: svc}
}

// Mine returns the current user's active digital credential.
func (h *CredentialHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	cred, err := h.svc.GetUserCredential(userID)
	if err != nil {
		if errors.Is(err, service.ErrCredentialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active credential"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load credential"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"credential": cred})
}

// Generate issues a credential after re-checking the gateway charge. Used by
// the frontend when the webhook has not arrived yet.
func (h *CredentialHandler) Generate(c *gin.Context) {
	var req struct {
		AsaasPaymentID string `json:"asaas_payment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cred, err := h.svc.VerifyPaymentAndGenerate(c.Request.Context(), req.AsaasPaymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "payment not confirmed yet"})
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "credential generation failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"credential": cred})
}

// Validate is the public QR endpoint. It always answers 200 with a verdict.
func (h *CredentialHandler) Validate(c *gin.Context) {
	idStr := c.Query("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusOK, service.ValidationResult{Valid: false, Message: "Credencial não encontrada"})
		return
	}
	result := h.svc.Validate(uint(id), c.Query("token"))
	c.JSON(http.StatusOK, result)
}
