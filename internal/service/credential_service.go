package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"associapro/internal/domain"
	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/pkg/asaas"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotConfirmed = errors.New("payment not confirmed yet")
	ErrCredentialNotFound  = errors.New("credential not found")
)

// credentialValidity is the fixed validity window of a membership credential.
const credentialValidity = 365 * 24 * time.Hour

type CredentialService struct {
	db         *gorm.DB
	credRepo   *repository.CredentialRepository
	userRepo   *repository.UserRepository
	payRepo    *repository.PaymentRepository
	gateway    *asaas.Client
	publicHost string
}

func NewCredentialService(db *gorm.DB, credRepo *repository.CredentialRepository, userRepo *repository.UserRepository, payRepo *repository.PaymentRepository, gateway *asaas.Client, publicHost string) *CredentialService {
	return &CredentialService{
		db:         db,
		credRepo:   credRepo,
		userRepo:   userRepo,
		payRepo:    payRepo,
		gateway:    gateway,
		publicHost: publicHost,
	}
}

// CredentialView is a credential merged with presentation fields from the
// user profile. Those fields are joined at read time, not stored on the row.
type CredentialView struct {
	models.Credential
	Name       string `json:"name"`
	Profession string `json:"profession"`
	Email      string `json:"email"`
	Photo      string `json:"photo"`
}

func viewOf(c *models.Credential, u *models.User) *CredentialView {
	v := &CredentialView{Credential: *c}
	if u != nil {
		v.Name = u.Name
		v.Profession = u.Profession
		v.Email = u.Email
		v.Photo = u.PhotoURL
	}
	return v
}

// Issue mints a new active credential for the user, superseding any previous
// active one. Both steps run in a single transaction so a failure leaves the
// old credential untouched.
func (s *CredentialService) Issue(userID uint, paymentID *uint) (*CredentialView, error) {
	var cred *models.Credential
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cred, err = IssueCredentialTx(tx, userID, paymentID, s.publicHost)
		return err
	})
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return viewOf(cred, u), nil
}

// IssueCredentialTx performs the supersede-and-insert inside the caller's
// transaction. The webhook pipeline shares it so credential issuance commits
// atomically with the payment status update.
func IssueCredentialTx(tx *gorm.DB, userID uint, paymentID *uint, publicHost string) (*models.Credential, error) {
	if err := tx.Model(&models.Credential{}).
		Where("user_id = ? AND status = ?", userID, domain.CredentialStatusActive).
		Update("status", domain.CredentialStatusInactive).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	cred := &models.Credential{
		UserID:     userID,
		QRToken:    uuid.NewString(),
		IssueDate:  now,
		ExpiryDate: now.Add(credentialValidity),
		Status:     domain.CredentialStatusActive,
		PaymentID:  paymentID,
	}
	if err := tx.Create(cred).Error; err != nil {
		return nil, err
	}
	// The QR payload carries the row id, so it can only be built after insert.
	cred.QRCode = fmt.Sprintf("%s/validar-credencial?id=%d&token=%s", publicHost, cred.ID, cred.QRToken)
	if err := tx.Model(cred).Update("qr_code", cred.QRCode).Error; err != nil {
		return nil, err
	}
	return cred, nil
}

// VerifyPaymentAndGenerate checks the gateway-side payment status and, if the
// charge cleared, marks the local record completed and issues a credential.
// Used by the member-facing "generate my credential" flow; renewal goes
// through the same path.
func (s *CredentialService) VerifyPaymentAndGenerate(ctx context.Context, asaasPaymentID string) (*CredentialView, error) {
	gp, err := s.gateway.GetPayment(ctx, asaasPaymentID)
	if err != nil {
		return nil, err
	}
	switch gp.Status {
	case "CONFIRMED", "RECEIVED", "RECEIVED_IN_CASH":
	default:
		return nil, fmt.Errorf("%w: gateway status %s", ErrPaymentNotConfirmed, gp.Status)
	}
	p, err := s.payRepo.GetByAsaasID(asaasPaymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusCompleted {
		if err := s.payRepo.UpdateStatus(p.ID, domain.PaymentStatusCompleted); err != nil {
			return nil, err
		}
	}
	pid := p.ID
	return s.Issue(p.UserID, &pid)
}

// GetUserCredential returns the member's active credential with profile
// fields joined in.
func (s *CredentialService) GetUserCredential(userID uint) (*CredentialView, error) {
	cred, err := s.credRepo.GetActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return viewOf(cred, &cred.User), nil
}

// ValidationResult is what a third party scanning the QR code sees.
type ValidationResult struct {
	Valid      bool               `json:"valid"`
	Credential *CredentialSummary `json:"credential,omitempty"`
	Message    string             `json:"message"`
}

type CredentialSummary struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Profession string    `json:"profession"`
	Photo      string    `json:"photo"`
	IssueDate  time.Time `json:"issueDate"`
	ExpiryDate time.Time `json:"expiryDate"`
	Status     string    `json:"status"`
}

// Validate checks a credential for a third party. It never fails outward:
// lookup problems collapse into an invalid result. When a token is supplied
// it must match the stored secret; validation without a token only checks
// status and expiry. A wrong token gets no member data back, so forged
// links cannot harvest profiles.
func (s *CredentialService) Validate(id uint, token string) ValidationResult {
	cred, err := s.credRepo.GetByID(id)
	if err != nil {
		return ValidationResult{Valid: false, Message: "Credencial não encontrada"}
	}
	if token != "" && cred.QRToken != "" && token != cred.QRToken {
		return ValidationResult{Valid: false, Message: "Credencial inválida ou expirada"}
	}
	now := time.Now()
	valid := cred.Status == domain.CredentialStatusActive && !cred.Expired(now)
	msg := "Credencial válida"
	if !valid {
		msg = "Credencial inválida ou expirada"
	}
	return ValidationResult{
		Valid: valid,
		Credential: &CredentialSummary{
			ID:         cred.ID,
			Name:       cred.User.Name,
			Profession: cred.User.Profession,
			Photo:      cred.User.PhotoURL,
			IssueDate:  cred.IssueDate,
			ExpiryDate: cred.ExpiryDate,
			Status:     cred.Status,
		},
		Message: msg,
	}
}

func (s *CredentialService) Stats() (*repository.CredentialStats, error) {
	return s.credRepo.Stats(time.Now())
}
