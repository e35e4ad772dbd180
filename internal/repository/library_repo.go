package repository

import (
	"associapro/internal/models"

	"gorm.io/gorm"
)

type LibraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

func (r *LibraryRepository) Create(m *models.LibraryMaterial) error {
	return r.db.Create(m).Error
}

func (r *LibraryRepository) GetByID(id uint) (*models.LibraryMaterial, error) {
	var m models.LibraryMaterial
	err := r.db.First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *LibraryRepository) List() ([]models.LibraryMaterial, error) {
	var list []models.LibraryMaterial
	err := r.db.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *LibraryRepository) ListByType(materialType string) ([]models.LibraryMaterial, error) {
	var list []models.LibraryMaterial
	err := r.db.Where("type = ?", materialType).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *LibraryRepository) ListByCategory(category string) ([]models.LibraryMaterial, error) {
	var list []models.LibraryMaterial
	err := r.db.Where("category = ?", category).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *LibraryRepository) Search(term string) ([]models.LibraryMaterial, error) {
	var list []models.LibraryMaterial
	like := "%" + term + "%"
	err := r.db.Where("title LIKE ? OR description LIKE ?", like, like).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *LibraryRepository) ListPopular(limit int) ([]models.LibraryMaterial, error) {
	var list []models.LibraryMaterial
	err := r.db.Order("download_count DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *LibraryRepository) Update(m *models.LibraryMaterial) error {
	return r.db.Save(m).Error
}

func (r *LibraryRepository) Delete(id uint) error {
	return r.db.Delete(&models.LibraryMaterial{}, id).Error
}

// RegisterDownload records the download and bumps the material counter in
// one transaction so the count can only grow with a matching row.
func (r *LibraryRepository) RegisterDownload(d *models.UserDownload) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		return tx.Model(&models.LibraryMaterial{}).
			Where("id = ?", d.MaterialID).
			Update("download_count", gorm.Expr("download_count + 1")).Error
	})
}

func (r *LibraryRepository) ListDownloadsByUser(userID uint) ([]models.UserDownload, error) {
	var list []models.UserDownload
	err := r.db.Preload("Material").
		Where("user_id = ?", userID).
		Order("download_date DESC").
		Find(&list).Error
	return list, err
}

func (r *LibraryRepository) CountMaterials() (int64, error) {
	var n int64
	err := r.db.Model(&models.LibraryMaterial{}).Count(&n).Error
	return n, err
}

func (r *LibraryRepository) CountDownloads() (int64, error) {
	var n int64
	err := r.db.Model(&models.UserDownload{}).Count(&n).Error
	return n, err
}

// CountByType returns material counts grouped by type.
func (r *LibraryRepository) CountByType() (map[string]int64, error) {
	rows := []struct {
		Type  string
		Total int64
	}{}
	err := r.db.Model(&models.LibraryMaterial{}).
		Select("type, COUNT(*) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Total
	}
	return out, nil
}
