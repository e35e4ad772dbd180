package service

import (
	"context"
	"testing"
	"time"

	"associapro/internal/models"
	"associapro/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCertificateService(db *gorm.DB) *CertificateService {
	return NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
}

func enrollCompleted(t *testing.T, db *gorm.DB, userID, courseID uint) {
	t.Helper()
	now := time.Now()
	e := &models.Enrollment{
		UserID:      userID,
		CourseID:    courseID,
		Progress:    100,
		Completed:   true,
		CompletedAt: &now,
	}
	require.NoError(t, db.Create(e).Error)
}

func TestGenerateCertificateForCompletedCourse(t *testing.T) {
	db := setupDB(t)
	svc := newCertificateService(db)
	u := createUser(t, db, "maria@test.com")
	course := &models.Course{Title: "Ética Profissional", Hours: 40, Published: true}
	require.NoError(t, db.Create(course).Error)
	enrollCompleted(t, db, u.ID, course.ID)

	cert, err := svc.Generate(context.Background(), u.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, cert.UserID)
	require.Equal(t, course.ID, cert.CourseID)
	require.Equal(t, 40, cert.Hours)
}

func TestGenerateCertificateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	svc := newCertificateService(db)
	u := createUser(t, db, "joao@test.com")
	course := &models.Course{Title: "Curso X", Hours: 10, Published: true}
	require.NoError(t, db.Create(course).Error)
	enrollCompleted(t, db, u.ID, course.ID)

	first, err := svc.Generate(context.Background(), u.ID, course.ID)
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), u.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGenerateRequiresCompletion(t *testing.T) {
	db := setupDB(t)
	svc := newCertificateService(db)
	u := createUser(t, db, "ana@test.com")
	course := &models.Course{Title: "Curso Y", Published: true}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, db.Create(&models.Enrollment{UserID: u.ID, CourseID: course.ID, Progress: 50}).Error)

	_, err := svc.Generate(context.Background(), u.ID, course.ID)
	require.ErrorIs(t, err, ErrCourseNotCompleted)
}

func TestGenerateWithoutEnrollment(t *testing.T) {
	db := setupDB(t)
	svc := newCertificateService(db)
	u := createUser(t, db, "solo@test.com")
	course := &models.Course{Title: "Curso Z"}
	require.NoError(t, db.Create(course).Error)

	_, err := svc.Generate(context.Background(), u.ID, course.ID)
	require.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestVerifyCertificate(t *testing.T) {
	db := setupDB(t)
	svc := newCertificateService(db)
	u := createUser(t, db, "vera@test.com")
	course := &models.Course{Title: "Curso V", Hours: 20, Published: true}
	require.NoError(t, db.Create(course).Error)
	enrollCompleted(t, db, u.ID, course.ID)

	cert, err := svc.Generate(context.Background(), u.ID, course.ID)
	require.NoError(t, err)

	result := svc.Verify(cert.ID)
	require.True(t, result.Valid)
	require.NotNil(t, result.Certificate)

	result = svc.Verify(9999)
	require.False(t, result.Valid)
	require.Equal(t, "Certificado não encontrado ou inválido", result.Message)
}
