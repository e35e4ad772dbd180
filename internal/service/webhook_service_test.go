package service

import (
	"testing"

	"associapro/internal/domain"
	"associapro/internal/models"
	"associapro/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newWebhookService(db *gorm.DB) *WebhookService {
	notifSvc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		nil, nil,
	)
	return NewWebhookService(db, notifSvc, "https://portal.test")
}

func TestMapEventStatus(t *testing.T) {
	cases := map[string]string{
		"PAYMENT_CONFIRMED":        domain.PaymentStatusCompleted,
		"PAYMENT_RECEIVED":         domain.PaymentStatusCompleted,
		"PAYMENT_RECEIVED_IN_CASH": domain.PaymentStatusCompleted,
		"PAYMENT_OVERDUE":          domain.PaymentStatusOverdue,
		"PAYMENT_DELETED":          domain.PaymentStatusCancelled,
		"PAYMENT_REFUNDED":         domain.PaymentStatusCancelled,
		"PAYMENT_REFUND_IN_CASH":   domain.PaymentStatusCancelled,
		"PAYMENT_AWAITING":         domain.PaymentStatusPending,
		"PAYMENT_SOMETHING_NEW":    domain.PaymentStatusPending,
	}
	for event, want := range cases {
		require.Equal(t, want, MapEventStatus(event), "event %s", event)
	}
}

func TestProcessEventUnknownPayment(t *testing.T) {
	db := setupDB(t)
	svc := newWebhookService(db)

	env := &WebhookEnvelope{
		ID:      "evt_1",
		Event:   "PAYMENT_CONFIRMED",
		Payment: &EventPayment{ID: "pay_missing", Value: 250},
	}
	_, err := svc.ProcessEvent(env, []byte(`{}`))
	require.ErrorIs(t, err, ErrPaymentNotFound)

	// Nothing must be persisted when the payment lookup fails.
	var count int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestProcessEventConfirmedIssuesCredential(t *testing.T) {
	db := setupDB(t)
	svc := newWebhookService(db)
	u := createUser(t, db, "maria@test.com")
	p := createPayment(t, db, u.ID, "pay_123")

	env := &WebhookEnvelope{
		ID:      "evt_1",
		Event:   "PAYMENT_CONFIRMED",
		Payment: &EventPayment{ID: "pay_123", Value: 250},
	}
	result, err := svc.ProcessEvent(env, []byte(`{"event":"PAYMENT_CONFIRMED"}`))
	require.NoError(t, err)
	require.False(t, result.Duplicate)
	require.Equal(t, domain.PaymentStatusCompleted, result.Status)

	var got models.Payment
	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, domain.PaymentStatusCompleted, got.Status)
	require.NotNil(t, got.PaymentDate)

	// Membership payment: a credential must exist and reference the payment.
	var cred models.Credential
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&cred).Error)
	require.Equal(t, domain.CredentialStatusActive, cred.Status)
	require.NotNil(t, cred.PaymentID)
	require.Equal(t, p.ID, *cred.PaymentID)
	require.Contains(t, cred.QRCode, "/validar-credencial?id=")

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&n).Error)
	require.Equal(t, "Pagamento confirmado", n.Title)
}

func TestProcessEventOverdueNotifiesWithoutCredential(t *testing.T) {
	db := setupDB(t)
	svc := newWebhookService(db)
	u := createUser(t, db, "joao@test.com")
	createPayment(t, db, u.ID, "pay_77")

	env := &WebhookEnvelope{
		ID:      "evt_overdue",
		Event:   "PAYMENT_OVERDUE",
		Payment: &EventPayment{ID: "pay_77", Value: 250},
	}
	result, err := svc.ProcessEvent(env, []byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusOverdue, result.Status)

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&n).Error)
	require.Equal(t, "Pagamento atrasado", n.Title)

	var credCount int64
	require.NoError(t, db.Model(&models.Credential{}).Count(&credCount).Error)
	require.Zero(t, credCount)
}

func TestProcessEventRedeliveryIsNoop(t *testing.T) {
	db := setupDB(t)
	svc := newWebhookService(db)
	u := createUser(t, db, "ana@test.com")
	createPayment(t, db, u.ID, "pay_9")

	env := &WebhookEnvelope{
		ID:      "evt_9",
		Event:   "PAYMENT_CONFIRMED",
		Payment: &EventPayment{ID: "pay_9", Value: 250},
	}
	first, err := svc.ProcessEvent(env, []byte(`{}`))
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	second, err := svc.ProcessEvent(env, []byte(`{}`))
	require.NoError(t, err)
	require.True(t, second.Duplicate)
	require.Equal(t, first.Status, second.Status)

	// Exactly one of everything despite the redelivery.
	var notifs, creds, events int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&notifs).Error)
	require.NoError(t, db.Model(&models.Credential{}).Count(&creds).Error)
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	require.EqualValues(t, 1, notifs)
	require.EqualValues(t, 1, creds)
	require.EqualValues(t, 1, events)
}

func TestProcessEventFallbackKeyWithoutEventID(t *testing.T) {
	db := setupDB(t)
	svc := newWebhookService(db)
	u := createUser(t, db, "rui@test.com")
	createPayment(t, db, u.ID, "pay_nokey")

	env := &WebhookEnvelope{
		Event:   "PAYMENT_OVERDUE",
		Payment: &EventPayment{ID: "pay_nokey", Value: 250},
	}
	first, err := svc.ProcessEvent(env, []byte(`{}`))
	require.NoError(t, err)
	require.False(t, first.Duplicate)

	second, err := svc.ProcessEvent(env, []byte(`{}`))
	require.NoError(t, err)
	require.True(t, second.Duplicate)
}
