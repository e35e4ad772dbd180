package repository

import (
	"time"

	"associapro/internal/domain"
	"associapro/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByAsaasID(asaasID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("asaas_id = ?", asaasID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PaymentRepository) ListByUser(userID uint) ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *PaymentRepository) ListAll() ([]models.Payment, error) {
	var list []models.Payment
	err := r.db.Preload("Course").Preload("User").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *PaymentRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Payment{}).Count(&n).Error
	return n, err
}

// PaymentStats aggregates revenue and payment counts for the admin dashboard.
type PaymentStats struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	PendingRevenue    float64 `json:"pendingRevenue"`
	CompletedPayments int64   `json:"completedPayments"`
	PendingPayments   int64   `json:"pendingPayments"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
}

func (r *PaymentRepository) Stats(now time.Time) (*PaymentStats, error) {
	var s PaymentStats
	if err := r.db.Model(&models.Payment{}).
		Where("status = ?", domain.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&s.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Payment{}).
		Where("status = ?", domain.PaymentStatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&s.PendingRevenue).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Payment{}).
		Where("status = ?", domain.PaymentStatusCompleted).
		Count(&s.CompletedPayments).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Payment{}).
		Where("status = ?", domain.PaymentStatusPending).
		Count(&s.PendingPayments).Error; err != nil {
		return nil, err
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&models.Payment{}).
		Where("status = ? AND created_at >= ?", domain.PaymentStatusCompleted, startOfMonth).
		Select("COALESCE(SUM(amount), 0)").Scan(&s.MonthlyRevenue).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
