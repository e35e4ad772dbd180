package service

import (
	"testing"
	"time"

	"associapro/config"
	"associapro/internal/auth"
	"associapro/internal/domain"
	"associapro/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "associapro-test",
		},
	}
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(testConfig(), repository.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	u, access, refresh, err := svc.Register(RegisterInput{
		Name:       "Maria Silva",
		Email:      "maria@test.com",
		Password:   "senha-segura",
		Profession: "Psicóloga",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, u.Role)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.UserID)
	require.Equal(t, domain.RoleMember, claims.Role)

	logged, _, _, err := svc.Login("maria@test.com", "senha-segura")
	require.NoError(t, err)
	require.Equal(t, u.ID, logged.ID)
	require.NotNil(t, logged.LastLoginAt, "login must stamp last_login_at")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	_, _, _, err := svc.Register(RegisterInput{Name: "A", Email: "dup@test.com", Password: "12345678"})
	require.NoError(t, err)
	_, _, _, err = svc.Register(RegisterInput{Name: "B", Email: "dup@test.com", Password: "12345678"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	_, _, _, err := svc.Register(RegisterInput{Name: "A", Email: "a@test.com", Password: "12345678"})
	require.NoError(t, err)

	_, _, _, err = svc.Login("a@test.com", "errada")
	require.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = svc.Login("ninguem@test.com", "12345678")
	require.ErrorIs(t, err, ErrInvalidCreds)
}

func TestLoginWithGoogleCreatesAndLinks(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	u, _, _, isNew, err := svc.LoginWithGoogle("gid-1", "nova@test.com", "Nova Conta", "")
	require.NoError(t, err)
	require.True(t, isNew)
	require.Equal(t, domain.RoleMember, u.Role)

	// Same Google ID again: not new, same account.
	again, _, _, isNew, err := svc.LoginWithGoogle("gid-1", "nova@test.com", "Nova Conta", "")
	require.NoError(t, err)
	require.False(t, isNew)
	require.Equal(t, u.ID, again.ID)

	// Existing email account gets the Google ID linked, no duplicate created.
	reg, _, _, err := svc.Register(RegisterInput{Name: "C", Email: "velha@test.com", Password: "12345678"})
	require.NoError(t, err)
	linked, _, _, isNew, err := svc.LoginWithGoogle("gid-2", "velha@test.com", "C", "")
	require.NoError(t, err)
	require.False(t, isNew)
	require.Equal(t, reg.ID, linked.ID)
	require.NotNil(t, linked.GoogleID)
}

func TestChangePassword(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	u, _, _, err := svc.Register(RegisterInput{Name: "A", Email: "pw@test.com", Password: "antiga123"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(u.ID, "errada", "nova12345"), ErrInvalidCreds)
	require.NoError(t, svc.ChangePassword(u.ID, "antiga123", "nova12345"))

	_, _, _, err = svc.Login("pw@test.com", "nova12345")
	require.NoError(t, err)
}

func TestRefreshToken(t *testing.T) {
	db := setupDB(t)
	svc := newAuthService(db)

	_, _, refresh, err := svc.Register(RegisterInput{Name: "A", Email: "rt@test.com", Password: "12345678"})
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, newRefresh)

	_, _, err = svc.RefreshToken("not-a-token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
