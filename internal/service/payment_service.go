package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"associapro/internal/domain"
	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/pkg/asaas"

	"gorm.io/gorm"
)

// MembershipFee is the annual association fee charged when a checkout has no
// course attached.
const MembershipFee = 250.0

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrInvalidBillingType = errors.New("invalid billing type")
)

type PaymentService struct {
	payRepo    *repository.PaymentRepository
	userRepo   *repository.UserRepository
	courseRepo *repository.CourseRepository
	gateway    *asaas.Client
	notifSvc   *NotificationService
}

func NewPaymentService(payRepo *repository.PaymentRepository, userRepo *repository.UserRepository, courseRepo *repository.CourseRepository, gateway *asaas.Client, notifSvc *NotificationService) *PaymentService {
	return &PaymentService{
		payRepo:    payRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		gateway:    gateway,
		notifSvc:   notifSvc,
	}
}

// CheckoutRequest describes one checkout. CourseID nil means an association
// membership payment.
type CheckoutRequest struct {
	BillingType      string `json:"billing_type" binding:"required,oneof=credit_card pix boleto"`
	CourseID         *uint  `json:"course_id"`
	CpfCnpj          string `json:"cpf_cnpj" binding:"required"`
	InstallmentCount int    `json:"installment_count"`

	// Credit card fields, required when billing_type is credit_card.
	CardHolderName  string `json:"card_holder_name"`
	CardNumber      string `json:"card_number"`
	CardExpiryMonth string `json:"card_expiry_month"`
	CardExpiryYear  string `json:"card_expiry_year"`
	CardCcv         string `json:"card_ccv"`
	PostalCode      string `json:"postal_code"`
	AddressNumber   string `json:"address_number"`
}

// CheckoutResult returns the gateway charge plus the local pending record.
type CheckoutResult struct {
	Payment  *asaas.Payment  `json:"payment"`
	DBRecord *models.Payment `json:"db_record"`
}

// ensureCustomer finds or creates the gateway customer for the user and
// caches the id on the user row.
func (s *PaymentService) ensureCustomer(ctx context.Context, u *models.User, cpfCnpj string) (string, error) {
	if u.AsaasID != "" {
		return u.AsaasID, nil
	}
	existing, err := s.gateway.GetCustomerByEmail(ctx, u.Email)
	if err != nil {
		return "", err
	}
	var id string
	if existing != nil {
		id = existing.ID
	} else {
		created, err := s.gateway.CreateCustomer(ctx, asaas.CustomerRequest{
			Name:    u.Name,
			Email:   u.Email,
			CpfCnpj: cpfCnpj,
			Phone:   u.Phone,
			Address: u.Address,
		})
		if err != nil {
			return "", err
		}
		id = created.ID
	}
	u.AsaasID = id
	if err := s.userRepo.Update(u); err != nil {
		return "", err
	}
	return id, nil
}

// Checkout creates the gateway charge and the local pending payment row.
// Credit card charges are due today, PIX tomorrow, boleto in three days.
func (s *PaymentService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*CheckoutResult, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	amount := MembershipFee
	description := "Anuidade Associação Pro"
	if req.CourseID != nil {
		course, err := s.courseRepo.GetByID(*req.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
		amount = course.Price
		description = "Curso: " + course.Title
	}

	customerID, err := s.ensureCustomer(ctx, u, req.CpfCnpj)
	if err != nil {
		return nil, fmt.Errorf("gateway customer: %w", err)
	}

	gwReq := asaas.PaymentRequest{
		Customer:          customerID,
		Value:             amount,
		Description:       description,
		ExternalReference: fmt.Sprintf("user:%d", userID),
	}
	now := time.Now()
	switch req.BillingType {
	case domain.PaymentMethodCreditCard:
		gwReq.BillingType = "CREDIT_CARD"
		gwReq.DueDate = now.Format("2006-01-02")
		gwReq.InstallmentCount = req.InstallmentCount
		gwReq.CreditCard = &asaas.CreditCard{
			HolderName:  req.CardHolderName,
			Number:      req.CardNumber,
			ExpiryMonth: req.CardExpiryMonth,
			ExpiryYear:  req.CardExpiryYear,
			Ccv:         req.CardCcv,
		}
		gwReq.CreditCardHolderInfo = &asaas.CreditCardHolderInfo{
			Name:          req.CardHolderName,
			Email:         u.Email,
			CpfCnpj:       req.CpfCnpj,
			PostalCode:    req.PostalCode,
			AddressNumber: req.AddressNumber,
			Phone:         u.Phone,
		}
	case domain.PaymentMethodPix:
		gwReq.BillingType = "PIX"
		gwReq.DueDate = now.AddDate(0, 0, 1).Format("2006-01-02")
	case domain.PaymentMethodBoleto:
		gwReq.BillingType = "BOLETO"
		gwReq.DueDate = now.AddDate(0, 0, 3).Format("2006-01-02")
	default:
		return nil, ErrInvalidBillingType
	}

	gwPayment, err := s.gateway.CreatePayment(ctx, gwReq)
	if err != nil {
		return nil, fmt.Errorf("gateway payment: %w", err)
	}

	record := &models.Payment{
		UserID:        userID,
		CourseID:      req.CourseID,
		Amount:        amount,
		Status:        domain.PaymentStatusPending,
		AsaasID:       gwPayment.ID,
		PaymentMethod: req.BillingType,
	}
	if err := s.payRepo.Create(record); err != nil {
		return nil, err
	}
	return &CheckoutResult{Payment: gwPayment, DBRecord: record}, nil
}

// UpdateStatus is the administrative override. The notification is best
// effort: a failure there never fails the status change.
func (s *PaymentService) UpdateStatus(asaasID, status string) (*models.Payment, error) {
	p, err := s.payRepo.GetByAsaasID(asaasID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if err := s.payRepo.UpdateStatus(p.ID, status); err != nil {
		return nil, err
	}
	p.Status = status
	if err := s.notifSvc.NotifyPaymentStatus(p.UserID, status, p.Amount); err != nil {
		log.Printf("[PAYMENT] notify status %s for payment %s: %v", status, asaasID, err)
	}
	return p, nil
}

// CheckGatewayStatus fetches the charge state straight from the gateway.
func (s *PaymentService) CheckGatewayStatus(ctx context.Context, asaasID string) (*asaas.Payment, error) {
	return s.gateway.GetPayment(ctx, asaasID)
}

func (s *PaymentService) History(userID uint) ([]models.Payment, error) {
	return s.payRepo.ListByUser(userID)
}

func (s *PaymentService) Stats() (*repository.PaymentStats, error) {
	return s.payRepo.Stats(time.Now())
}
