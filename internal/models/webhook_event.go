package models

import (
	"time"
)

// WebhookEvent is the idempotency ledger for gateway callbacks. The unique
// event key is persisted in the same transaction as the side effects it
// guards, so re-delivering an event is a no-op.
type WebhookEvent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventKey    string     `gorm:"size:128;uniqueIndex;not null" json:"event_key"`
	EventType   string     `gorm:"size:64;not null" json:"event_type"`
	AsaasID     string     `gorm:"size:64;index" json:"asaas_id"`
	Payload     string     `gorm:"type:text" json:"-"`
	ReceivedAt  time.Time  `gorm:"not null" json:"received_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
