package repository

import (
	"time"

	"associapro/internal/models"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(c *models.Certificate) error {
	return r.db.Create(c).Error
}

func (r *CertificateRepository) GetByID(id uint) (*models.Certificate, error) {
	var c models.Certificate
	err := r.db.Preload("User").Preload("Course").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) GetByUserAndCourse(userID, courseID uint) (*models.Certificate, error) {
	var c models.Certificate
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) ListByUser(userID uint) ([]models.Certificate, error) {
	var list []models.Certificate
	err := r.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("issue_date DESC").
		Find(&list).Error
	return list, err
}

type CertificateStats struct {
	TotalCertificates int64 `json:"totalCertificates"`
	MonthCertificates int64 `json:"monthCertificates"`
}

func (r *CertificateRepository) Stats(now time.Time) (*CertificateStats, error) {
	var s CertificateStats
	if err := r.db.Model(&models.Certificate{}).Count(&s.TotalCertificates).Error; err != nil {
		return nil, err
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := r.db.Model(&models.Certificate{}).
		Where("issue_date >= ?", startOfMonth).
		Count(&s.MonthCertificates).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
