package service

import (
	"testing"

	"associapro/internal/database"
	"associapro/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{
		Name:       "Maria Silva",
		Email:      email,
		Role:       "MEMBER",
		Profession: "Psicóloga",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createPayment(t *testing.T, db *gorm.DB, userID uint, asaasID string) *models.Payment {
	t.Helper()
	p := &models.Payment{
		UserID:        userID,
		Amount:        250,
		Status:        "pending",
		AsaasID:       asaasID,
		PaymentMethod: "pix",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
