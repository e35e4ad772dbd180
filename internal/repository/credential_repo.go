package repository

import (
	"time"

	"associapro/internal/domain"
	"associapro/internal/models"

	"gorm.io/gorm"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) GetByID(id uint) (*models.Credential, error) {
	var c models.Credential
	err := r.db.Preload("User").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActiveByUser returns the user's active credential. Expired rows still
// count as active here; expiry is the validator's concern.
func (r *CredentialRepository) GetActiveByUser(userID uint) (*models.Credential, error) {
	var c models.Credential
	err := r.db.Preload("User").
		Where("user_id = ? AND status = ?", userID, domain.CredentialStatusActive).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CredentialStats aggregates counts for the admin dashboard.
type CredentialStats struct {
	ActiveCredentials  int64 `json:"activeCredentials"`
	ExpiredCredentials int64 `json:"expiredCredentials"`
	MonthCredentials   int64 `json:"monthCredentials"`
}

func (r *CredentialRepository) Stats(now time.Time) (*CredentialStats, error) {
	var s CredentialStats
	if err := r.db.Model(&models.Credential{}).
		Where("status = ?", domain.CredentialStatusActive).
		Count(&s.ActiveCredentials).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Credential{}).
		Where("status = ? AND expiry_date < ?", domain.CredentialStatusActive, now).
		Count(&s.ExpiredCredentials).Error; err != nil {
		return nil, err
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&models.Credential{}).
		Where("issue_date >= ?", startOfMonth).
		Count(&s.MonthCredentials).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
