package models

import (
	"time"

	"gorm.io/gorm"
)

type LibraryMaterial struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Type          string         `gorm:"size:20;not null;index" json:"type"` // ebook, pdf, magazine
	Category      string         `gorm:"size:128;index" json:"category"`
	Pages         int            `json:"pages"`
	FileURL       string         `gorm:"size:512" json:"file_url"`
	CoverURL      string         `gorm:"size:512" json:"cover_url"`
	DownloadCount int64          `gorm:"default:0" json:"download_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LibraryMaterial) TableName() string {
	return "library_materials"
}

type UserDownload struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	MaterialID   uint      `gorm:"not null;index" json:"material_id"`
	DownloadDate time.Time `gorm:"not null" json:"download_date"`

	User     User            `gorm:"foreignKey:UserID" json:"-"`
	Material LibraryMaterial `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}

func (UserDownload) TableName() string {
	return "user_downloads"
}
