package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"associapro/internal/domain"
	"associapro/internal/repository"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type AdminHandler struct {
	paymentSvc *service.PaymentService
	credSvc    *service.CredentialService
	certSvc    *service.CertificateService
	librarySvc *service.LibraryService
	notifSvc   *service.NotificationService
	userRepo   *repository.UserRepository
	payRepo    *repository.PaymentRepository
}

func NewAdminHandler(
	paymentSvc *service.PaymentService,
	credSvc *service.CredentialService,
	certSvc *service.CertificateService,
	librarySvc *service.LibraryService,
	notifSvc *service.NotificationService,
	userRepo *repository.UserRepository,
	payRepo *repository.PaymentRepository,
) *AdminHandler {
	return &AdminHandler{
		paymentSvc: paymentSvc,
		credSvc:    credSvc,
		certSvc:    certSvc,
		librarySvc: librarySvc,
		notifSvc:   notifSvc,
		userRepo:   userRepo,
		payRepo:    payRepo,
	}
}

// Dashboard aggregates the stat blocks shown on the admin home page. A
// failing block logs and comes back empty rather than failing the page.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	resp := gin.H{}
	if s, err := h.paymentSvc.Stats(); err == nil {
		resp["payments"] = s
	} else {
		log.Printf("[ADMIN] payment stats: %v", err)
	}
	if s, err := h.credSvc.Stats(); err == nil {
		resp["credentials"] = s
	} else {
		log.Printf("[ADMIN] credential stats: %v", err)
	}
	if s, err := h.certSvc.Stats(); err == nil {
		resp["certificates"] = s
	} else {
		log.Printf("[ADMIN] certificate stats: %v", err)
	}
	if s, err := h.librarySvc.Stats(); err == nil {
		resp["library"] = s
	} else {
		log.Printf("[ADMIN] library stats: %v", err)
	}
	if n, err := h.userRepo.Count(); err == nil {
		resp["totalUsers"] = n
	}
	c.JSON(http.StatusOK, resp)
}

// ListPayments returns every payment with user and course data.
func (h *AdminHandler) ListPayments(c *gin.Context) {
	payments, err := h.payRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// UpdatePaymentStatus is the manual override for when the gateway and the
// portal disagree. The member is notified of the new status.
func (h *AdminHandler) UpdatePaymentStatus(c *gin.Context) {
	var req struct {
		AsaasID string `json:"asaas_id" binding:"required"`
		Status  string `json:"status" binding:"required,oneof=pending completed overdue cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.paymentSvc.UpdateStatus(req.AsaasID, req.Status)
	if err != nil {
		if err == service.ErrPaymentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// Broadcast sends a notification to every member.
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		Type    string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = domain.NotificationTypeSystem
	}
	if err := h.notifSvc.Broadcast(req.Type, req.Title, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcast failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ExportPayments streams the full payment history as an Excel workbook.
func (h *AdminHandler) ExportPayments(c *gin.Context) {
	payments, err := h.payRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load payments"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Pagamentos"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Associado", "Email", "Curso", "Valor (R$)", "Status", "Método", "Data de pagamento", "Criado em"}
	for i, htitle := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, htitle)
	}
	for row, p := range payments {
		courseTitle := "Anuidade"
		if p.Course != nil {
			courseTitle = p.Course.Title
		}
		paymentDate := ""
		if p.PaymentDate != nil {
			paymentDate = p.PaymentDate.Format("02/01/2006")
		}
		values := []interface{}{
			p.ID,
			p.User.Name,
			p.User.Email,
			courseTitle,
			p.Amount,
			p.Status,
			p.PaymentMethod,
			paymentDate,
			p.CreatedAt.Format("02/01/2006 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("pagamentos_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ADMIN] excel export: %v", err)
	}
}

// ListUsers returns the member roster.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// IssueCredential manually issues a credential for a member.
func (h *AdminHandler) IssueCredential(c *gin.Context) {
	var req struct {
		UserID    uint  `json:"user_id" binding:"required"`
		PaymentID *uint `json:"payment_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cred, err := h.credSvc.Issue(req.UserID, req.PaymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "credential issuance failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"credential": cred})
}
