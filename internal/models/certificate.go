package models

import (
	"time"
)

type Certificate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index:idx_certificates_user_course,unique" json:"user_id"`
	CourseID    uint      `gorm:"not null;index:idx_certificates_user_course,unique" json:"course_id"`
	IssueDate   time.Time `gorm:"not null" json:"issue_date"`
	DownloadURL string    `gorm:"size:512" json:"download_url"`
	Hours       int       `json:"hours"`
	CreatedAt   time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}
