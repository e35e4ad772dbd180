package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"associapro/internal/database"
	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupWebhookRouter(t *testing.T, webhookToken string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	notifSvc := service.NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		nil, nil,
	)
	svc := service.NewWebhookService(db, notifSvc, "https://portal.test")
	h := NewWebhookHandler(svc, webhookToken)

	r := gin.New()
	r.POST("/functions/asaas-webhook", h.HandleAsaas)
	return r, db
}

func seedPayment(t *testing.T, db *gorm.DB, asaasID string) *models.User {
	t.Helper()
	u := &models.User{Name: "Maria Silva", Email: asaasID + "@test.com", Role: "MEMBER"}
	require.NoError(t, db.Create(u).Error)
	p := &models.Payment{UserID: u.ID, Amount: 250, Status: "pending", AsaasID: asaasID, PaymentMethod: "boleto"}
	require.NoError(t, db.Create(p).Error)
	return u
}

func postEvent(r *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/functions/asaas-webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookOverdueEndToEnd(t *testing.T) {
	r, db := setupWebhookRouter(t, "")
	u := seedPayment(t, db, "pay_150")

	w := postEvent(r, `{"id":"evt_1","event":"PAYMENT_OVERDUE","payment":{"id":"pay_150","value":250}}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "overdue", resp.Status)

	var p models.Payment
	require.NoError(t, db.Where("asaas_id = ?", "pay_150").First(&p).Error)
	require.Equal(t, "overdue", p.Status)

	var notifs []models.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	require.Equal(t, "Pagamento atrasado", notifs[0].Title)
}

func TestWebhookMalformedBody(t *testing.T) {
	r, _ := setupWebhookRouter(t, "")

	w := postEvent(r, `{not json`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Valid JSON but no payment block is also malformed.
	w = postEvent(r, `{"event":"PAYMENT_CONFIRMED"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookUnknownPayment(t *testing.T) {
	r, _ := setupWebhookRouter(t, "")

	w := postEvent(r, `{"id":"evt_x","event":"PAYMENT_CONFIRMED","payment":{"id":"pay_ghost","value":250}}`, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}

func TestWebhookTokenCheck(t *testing.T) {
	r, db := setupWebhookRouter(t, "secret-token")
	seedPayment(t, db, "pay_tok")

	body := `{"id":"evt_t","event":"PAYMENT_CONFIRMED","payment":{"id":"pay_tok","value":250}}`

	w := postEvent(r, body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postEvent(r, body, map[string]string{"asaas-access-token": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postEvent(r, body, map[string]string{"asaas-access-token": "secret-token"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookReplayAnswersOK(t *testing.T) {
	r, db := setupWebhookRouter(t, "")
	u := seedPayment(t, db, "pay_replay")

	body := `{"id":"evt_r","event":"PAYMENT_CONFIRMED","payment":{"id":"pay_replay","value":250}}`
	require.Equal(t, http.StatusOK, postEvent(r, body, nil).Code)
	require.Equal(t, http.StatusOK, postEvent(r, body, nil).Code)

	var notifCount, credCount int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", u.ID).Count(&notifCount).Error)
	require.NoError(t, db.Model(&models.Credential{}).Where("user_id = ?", u.ID).Count(&credCount).Error)
	require.EqualValues(t, 1, notifCount)
	require.EqualValues(t, 1, credCount)
}
