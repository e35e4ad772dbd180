package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"associapro/internal/domain"
	"associapro/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// WebhookEnvelope is the gateway callback body:
// {"id": "evt_...", "event": "PAYMENT_CONFIRMED", "payment": {"id": "pay_...", "value": 150.0}}
type WebhookEnvelope struct {
	ID      string        `json:"id"`
	Event   string        `json:"event"`
	Payment *EventPayment `json:"payment"`
}

type EventPayment struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// WebhookResult reports what processing did. Duplicate is set when the event
// was already applied and nothing changed.
type WebhookResult struct {
	Status    string
	Duplicate bool
}

// WebhookService drives the payment state machine from gateway events.
//
// All side effects of one event (the idempotency ledger row, the payment
// status update, the notification and, for membership payments, the
// credential) commit in a single transaction.
type WebhookService struct {
	db         *gorm.DB
	notifSvc   *NotificationService
	publicHost string
}

func NewWebhookService(db *gorm.DB, notifSvc *NotificationService, publicHost string) *WebhookService {
	return &WebhookService{db: db, notifSvc: notifSvc, publicHost: publicHost}
}

// MapEventStatus translates a gateway event name into the internal payment
// status. Unrecognized events fall back to pending.
func MapEventStatus(event string) string {
	switch event {
	case "PAYMENT_CONFIRMED", "PAYMENT_RECEIVED", "PAYMENT_RECEIVED_IN_CASH":
		return domain.PaymentStatusCompleted
	case "PAYMENT_OVERDUE":
		return domain.PaymentStatusOverdue
	case "PAYMENT_DELETED", "PAYMENT_REFUNDED", "PAYMENT_REFUND_IN_CASH":
		return domain.PaymentStatusCancelled
	case "PAYMENT_AWAITING", "PAYMENT_ANTICIPATED":
		return domain.PaymentStatusPending
	default:
		return domain.PaymentStatusPending
	}
}

// ProcessEvent applies one gateway event. Re-delivering the same event is a
// no-op that reports the current status.
func (s *WebhookService) ProcessEvent(env *WebhookEnvelope, rawBody []byte) (*WebhookResult, error) {
	if env.Payment == nil || env.Payment.ID == "" {
		return nil, fmt.Errorf("missing payment in event %q", env.Event)
	}
	eventKey := env.ID
	if eventKey == "" {
		// Older gateway configurations omit the event id; the event type
		// plus charge id still dedupes redeliveries.
		eventKey = env.Event + ":" + env.Payment.ID
	}

	result := &WebhookResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.WebhookEvent
		err := tx.Where("event_key = ?", eventKey).First(&existing).Error
		if err == nil {
			var p models.Payment
			if err := tx.Where("asaas_id = ?", env.Payment.ID).First(&p).Error; err != nil {
				return ErrPaymentNotFound
			}
			result.Status = p.Status
			result.Duplicate = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var p models.Payment
		if err := tx.Where("asaas_id = ?", env.Payment.ID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		now := time.Now()
		evt := &models.WebhookEvent{
			EventKey:    eventKey,
			EventType:   env.Event,
			AsaasID:     env.Payment.ID,
			Payload:     string(rawBody),
			ReceivedAt:  now,
			ProcessedAt: &now,
		}
		if err := tx.Create(evt).Error; err != nil {
			return err
		}

		newStatus := MapEventStatus(env.Event)
		updates := map[string]interface{}{"status": newStatus}
		if newStatus == domain.PaymentStatusCompleted {
			updates["payment_date"] = &now
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
			return err
		}

		title, message := PaymentStatusNotification(newStatus, env.Payment.Value)
		if title != "" {
			n := &models.Notification{
				UserID:  p.UserID,
				Type:    domain.NotificationTypePayment,
				Title:   title,
				Message: message,
			}
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}

		// A completed charge with no course attached is a membership
		// payment: issue the credential in the same transaction.
		if newStatus == domain.PaymentStatusCompleted && p.CourseID == nil {
			pid := p.ID
			if _, err := IssueCredentialTx(tx, p.UserID, &pid, s.publicHost); err != nil {
				return err
			}
			log.Printf("[WEBHOOK] credential issued for user %d (payment %s)", p.UserID, env.Payment.ID)
		}

		result.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.Duplicate {
		s.pushPaymentUpdate(env.Payment.ID, result.Status)
	}
	return result, nil
}

// pushPaymentUpdate mirrors the committed notification onto the live
// channels. Failures here never affect the response.
func (s *WebhookService) pushPaymentUpdate(asaasID, status string) {
	if s.notifSvc == nil || s.notifSvc.hub == nil {
		return
	}
	var p models.Payment
	if err := s.db.Where("asaas_id = ?", asaasID).First(&p).Error; err != nil {
		return
	}
	s.notifSvc.hub.BroadcastToUser(p.UserID, map[string]interface{}{
		"type":     "payment_update",
		"asaas_id": asaasID,
		"status":   status,
	})
}
