package models

import (
	"time"
)

// Payment mirrors one charge at the Asaas gateway. Rows are created when a
// checkout is initiated and only ever change status afterwards; they are
// never deleted.
type Payment struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	CourseID      *uint      `gorm:"index" json:"course_id"` // nil = association membership payment
	Amount        float64    `gorm:"not null" json:"amount"`
	Status        string     `gorm:"size:20;not null;index" json:"status"` // pending, completed, overdue, cancelled
	AsaasID       string     `gorm:"size:64;uniqueIndex;not null" json:"asaas_id"`
	PaymentMethod string     `gorm:"size:20" json:"payment_method"` // credit_card, pix, boleto
	PaymentDate   *time.Time `json:"payment_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	User   User    `gorm:"foreignKey:UserID" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
