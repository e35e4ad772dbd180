package models

import (
	"time"
)

// Credential is a membership proof with a QR-encoded verification URL.
// At most one credential per user is active; issuing a new one flips the
// previous active row to inactive in the same transaction. Expiry is checked
// at validation time, the status column is not flipped automatically.
type Credential struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	QRCode     string    `gorm:"size:512;not null" json:"qr_code"` // full verification URL
	QRToken    string    `gorm:"size:64;index;not null" json:"-"`  // secret checked on validation
	IssueDate  time.Time `gorm:"not null" json:"issue_date"`
	ExpiryDate time.Time `gorm:"not null" json:"expiry_date"`
	Status     string    `gorm:"size:20;not null;index" json:"status"` // active | inactive
	PaymentID  *uint     `json:"payment_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User    User     `gorm:"foreignKey:UserID" json:"-"`
	Payment *Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

func (Credential) TableName() string {
	return "credentials"
}

// Expired reports whether the credential's validity window has passed.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpiryDate)
}
