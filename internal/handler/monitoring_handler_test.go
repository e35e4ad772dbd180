package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"associapro/config"
	"associapro/internal/auth"
	"associapro/internal/database"
	"associapro/internal/repository"
	"associapro/internal/service"
	"associapro/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMonitoringRouter(t *testing.T) (*gin.Engine, *config.JWTConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	jwtCfg := &config.JWTConfig{
		AccessSecret:  "test-secret",
		RefreshSecret: "test-refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "test",
	}
	svc := service.NewMonitoringService(
		db,
		repository.NewUserRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewLibraryRepository(db),
		ws.NewHub(),
		nil,
		true,
	)
	h := NewMonitoringHandler(jwtCfg, svc)
	r := gin.New()
	r.POST("/functions/monitoring", h.Handle)
	return r, jwtCfg
}

func postMonitoring(r *gin.Engine, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/functions/monitoring", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMonitoringUnknownAction(t *testing.T) {
	r, _ := setupMonitoringRouter(t)
	require.Equal(t, http.StatusBadRequest, postMonitoring(r, `{"action":"explode"}`, "").Code)
	require.Equal(t, http.StatusBadRequest, postMonitoring(r, `not json`, "").Code)
}

func TestMonitoringHealthCheckIsOpen(t *testing.T) {
	r, _ := setupMonitoringRouter(t)
	w := postMonitoring(r, `{"action":"healthCheck"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestMonitoringStatsRequiresAdmin(t *testing.T) {
	r, jwtCfg := setupMonitoringRouter(t)

	require.Equal(t, http.StatusUnauthorized, postMonitoring(r, `{"action":"getStats"}`, "").Code)

	memberToken, err := auth.GenerateAccessToken(jwtCfg, 1, "m@test.com", "MEMBER")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, postMonitoring(r, `{"action":"getStats"}`, memberToken).Code)

	adminToken, err := auth.GenerateAccessToken(jwtCfg, 2, "a@test.com", "ADMIN")
	require.NoError(t, err)
	w := postMonitoring(r, `{"action":"getStats"}`, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"totalUsers"`)
}
