package models

import (
	"time"

	"associapro/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // MEMBER | ADMIN
	Profession   string         `gorm:"size:255" json:"profession"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Address      string         `gorm:"size:512" json:"address"`
	PhotoURL     string         `gorm:"size:512" json:"photo_url"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	AsaasID      string         `gorm:"size:64;index" json:"-"`        // gateway customer id, set on first checkout
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }
