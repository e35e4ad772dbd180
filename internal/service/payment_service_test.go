package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"associapro/internal/domain"
	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/pkg/asaas"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway mimics the Asaas endpoints the checkout flow touches.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/customers":
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []asaas.Customer{}})
		case r.Method == http.MethodPost && r.URL.Path == "/customers":
			json.NewEncoder(w).Encode(asaas.Customer{ID: "cus_test"})
		case r.Method == http.MethodPost && r.URL.Path == "/payments":
			var req asaas.PaymentRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(asaas.Payment{
				ID:          "pay_test",
				Customer:    req.Customer,
				BillingType: req.BillingType,
				Value:       req.Value,
				Status:      "PENDING",
				DueDate:     req.DueDate,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newPaymentService(db *gorm.DB, gatewayURL string) *PaymentService {
	return NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		asaas.NewClientWithBaseURL("test-key", gatewayURL),
		newNotificationService(db),
	)
}

func TestCheckoutMembershipCreatesPendingRecord(t *testing.T) {
	db := setupDB(t)
	srv := fakeGateway(t)
	defer srv.Close()
	svc := newPaymentService(db, srv.URL)
	u := createUser(t, db, "maria@test.com")

	result, err := svc.Checkout(context.Background(), u.ID, CheckoutRequest{
		BillingType: domain.PaymentMethodPix,
		CpfCnpj:     "12345678909",
	})
	require.NoError(t, err)
	require.Equal(t, "pay_test", result.Payment.ID)
	require.Equal(t, MembershipFee, result.Payment.Value)

	require.Equal(t, domain.PaymentStatusPending, result.DBRecord.Status)
	require.Nil(t, result.DBRecord.CourseID)
	require.Equal(t, "pay_test", result.DBRecord.AsaasID)
	require.Equal(t, MembershipFee, result.DBRecord.Amount)

	// Gateway customer id is cached on the user.
	var got models.User
	require.NoError(t, db.First(&got, u.ID).Error)
	require.Equal(t, "cus_test", got.AsaasID)
}

func TestCheckoutCourseUsesCoursePrice(t *testing.T) {
	db := setupDB(t)
	srv := fakeGateway(t)
	defer srv.Close()
	svc := newPaymentService(db, srv.URL)
	u := createUser(t, db, "joao@test.com")
	course := &models.Course{Title: "Ética Profissional", Price: 99.9, Published: true}
	require.NoError(t, db.Create(course).Error)

	result, err := svc.Checkout(context.Background(), u.ID, CheckoutRequest{
		BillingType: domain.PaymentMethodBoleto,
		CpfCnpj:     "12345678909",
		CourseID:    &course.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 99.9, result.DBRecord.Amount)
	require.NotNil(t, result.DBRecord.CourseID)
	require.Equal(t, course.ID, *result.DBRecord.CourseID)
}

func TestCheckoutUnknownCourse(t *testing.T) {
	db := setupDB(t)
	srv := fakeGateway(t)
	defer srv.Close()
	svc := newPaymentService(db, srv.URL)
	u := createUser(t, db, "x@test.com")

	missing := uint(404)
	_, err := svc.Checkout(context.Background(), u.ID, CheckoutRequest{
		BillingType: domain.PaymentMethodPix,
		CpfCnpj:     "12345678909",
		CourseID:    &missing,
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUpdateStatusNotifiesMember(t *testing.T) {
	db := setupDB(t)
	svc := newPaymentService(db, "http://unused.test")
	u := createUser(t, db, "ana@test.com")
	createPayment(t, db, u.ID, "pay_55")

	p, err := svc.UpdateStatus("pay_55", domain.PaymentStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusCompleted, p.Status)

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&n).Error)
	require.Equal(t, "Pagamento confirmado", n.Title)
}

func TestUpdateStatusUnknownPayment(t *testing.T) {
	db := setupDB(t)
	svc := newPaymentService(db, "http://unused.test")

	_, err := svc.UpdateStatus("pay_ghost", domain.PaymentStatusCompleted)
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentStats(t *testing.T) {
	db := setupDB(t)
	svc := newPaymentService(db, "http://unused.test")
	u := createUser(t, db, "stats@test.com")

	completed := createPayment(t, db, u.ID, "pay_a")
	require.NoError(t, db.Model(completed).Update("status", domain.PaymentStatusCompleted).Error)
	createPayment(t, db, u.ID, "pay_b")

	stats, err := svc.Stats()
	require.NoError(t, err)
	require.Equal(t, 250.0, stats.TotalRevenue)
	require.Equal(t, 250.0, stats.PendingRevenue)
	require.EqualValues(t, 1, stats.CompletedPayments)
	require.EqualValues(t, 1, stats.PendingPayments)
}
