package handler

import (
	"errors"
	"net/http"
	"strconv"

	"associapro/internal/middleware"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	svc *service.CertificateService
}

func NewCertificateHandler(svc *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

// Generate issues the completion certificate for a finished course.
func (h *CertificateHandler) Generate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		CourseID uint `json:"course_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cert, err := h.svc.Generate(c.Request.Context(), userID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
		case errors.Is(err, service.ErrCourseNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "course not completed"})
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "certificate generation failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"certificate": cert})
}

// Mine lists the current user's certificates.
func (h *CertificateHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	certs, err := h.svc.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load certificates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// Verify is the public certificate check endpoint.
func (h *CertificateHandler) Verify(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusOK, service.VerificationResult{Valid: false, Message: "Certificado não encontrado ou inválido"})
		return
	}
	c.JSON(http.StatusOK, h.svc.Verify(uint(id)))
}
