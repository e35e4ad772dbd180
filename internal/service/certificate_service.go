package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/pkg/cloudinary"
	"associapro/pkg/pdf"

	"gorm.io/gorm"
)

var (
	ErrCourseNotCompleted  = errors.New("course not completed")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)

type CertificateService struct {
	certRepo   *repository.CertificateRepository
	courseRepo *repository.CourseRepository
	userRepo   *repository.UserRepository
	cloud      cloudinary.Client // may be nil, PDF upload is skipped then
}

func NewCertificateService(certRepo *repository.CertificateRepository, courseRepo *repository.CourseRepository, userRepo *repository.UserRepository, cloud cloudinary.Client) *CertificateService {
	return &CertificateService{certRepo: certRepo, courseRepo: courseRepo, userRepo: userRepo, cloud: cloud}
}

// Generate issues a course-completion certificate. The enrollment must be
// completed; an already-issued certificate is returned as is.
func (s *CertificateService) Generate(ctx context.Context, userID, courseID uint) (*models.Certificate, error) {
	enrollment, err := s.courseRepo.GetEnrollment(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if !enrollment.Completed {
		return nil, ErrCourseNotCompleted
	}

	existing, err := s.certRepo.GetByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rendered, err := pdf.RenderCertificate(pdf.CertificateData{
		StudentName: u.Name,
		Profession:  u.Profession,
		CourseTitle: course.Title,
		Hours:       course.Hours,
		IssueDate:   now,
	})
	if err != nil {
		return nil, err
	}

	var downloadURL string
	if s.cloud != nil {
		publicID := fmt.Sprintf("cert_%d_%d", userID, courseID)
		downloadURL, err = s.cloud.UploadRaw(ctx, bytes.NewReader(rendered), "certificates", publicID)
		if err != nil {
			return nil, fmt.Errorf("upload certificate: %w", err)
		}
	}

	cert := &models.Certificate{
		UserID:      userID,
		CourseID:    courseID,
		IssueDate:   now,
		DownloadURL: downloadURL,
		Hours:       course.Hours,
	}
	if err := s.certRepo.Create(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

func (s *CertificateService) ListByUser(userID uint) ([]models.Certificate, error) {
	return s.certRepo.ListByUser(userID)
}

func (s *CertificateService) GetByID(id uint) (*models.Certificate, error) {
	cert, err := s.certRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return cert, nil
}

// VerificationResult is returned to anyone checking a certificate's
// authenticity; lookups never fail outward.
type VerificationResult struct {
	Valid       bool                `json:"valid"`
	Certificate *models.Certificate `json:"certificate,omitempty"`
	Message     string              `json:"message,omitempty"`
}

func (s *CertificateService) Verify(id uint) VerificationResult {
	cert, err := s.certRepo.GetByID(id)
	if err != nil {
		return VerificationResult{Valid: false, Message: "Certificado não encontrado ou inválido"}
	}
	return VerificationResult{Valid: true, Certificate: cert}
}

func (s *CertificateService) Stats() (*repository.CertificateStats, error) {
	return s.certRepo.Stats(time.Now())
}
