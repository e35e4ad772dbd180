package repository

import (
	"associapro/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

func (r *MessageRepository) List(limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *MessageRepository) MarkRead(id uint) error {
	return r.db.Model(&models.Message{}).Where("id = ?", id).Update("read", true).Error
}
