package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"associapro/internal/models"
	"associapro/internal/repository"
	"associapro/pkg/cloudinary"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMaterialNotFound   = errors.New("material not found")
	ErrStorageUnavailable = errors.New("media storage not configured")
)

type LibraryService struct {
	repo     *repository.LibraryRepository
	notifSvc *NotificationService
	cloud    cloudinary.Client // may be nil
}

func NewLibraryService(repo *repository.LibraryRepository, notifSvc *NotificationService, cloud cloudinary.Client) *LibraryService {
	return &LibraryService{repo: repo, notifSvc: notifSvc, cloud: cloud}
}

// AddMaterial stores the material and broadcasts its arrival to all members.
// The broadcast is best effort and never fails the insert.
func (s *LibraryService) AddMaterial(m *models.LibraryMaterial) error {
	if err := s.repo.Create(m); err != nil {
		return err
	}
	s.notifSvc.NotifyNewMaterial(m.Title)
	return nil
}

func (s *LibraryService) GetMaterial(id uint) (*models.LibraryMaterial, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListMaterials filters by type, category or search term; empty filters
// return everything, newest first.
func (s *LibraryService) ListMaterials(materialType, category, search string) ([]models.LibraryMaterial, error) {
	switch {
	case search != "":
		return s.repo.Search(search)
	case materialType != "":
		return s.repo.ListByType(materialType)
	case category != "":
		return s.repo.ListByCategory(category)
	default:
		return s.repo.List()
	}
}

func (s *LibraryService) PopularMaterials(limit int) ([]models.LibraryMaterial, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.ListPopular(limit)
}

func (s *LibraryService) UpdateMaterial(m *models.LibraryMaterial) error {
	return s.repo.Update(m)
}

func (s *LibraryService) DeleteMaterial(id uint) error {
	return s.repo.Delete(id)
}

// RegisterDownload records the download and bumps the counter atomically.
func (s *LibraryService) RegisterDownload(userID, materialID uint) error {
	if _, err := s.GetMaterial(materialID); err != nil {
		return err
	}
	return s.repo.RegisterDownload(&models.UserDownload{
		UserID:       userID,
		MaterialID:   materialID,
		DownloadDate: time.Now(),
	})
}

func (s *LibraryService) UserDownloads(userID uint) ([]models.UserDownload, error) {
	return s.repo.ListDownloadsByUser(userID)
}

// UploadFile pushes a material file to storage and returns its public URL.
func (s *LibraryService) UploadFile(ctx context.Context, file io.Reader, filename string) (string, error) {
	if s.cloud == nil {
		return "", ErrStorageUnavailable
	}
	publicID := "lib_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return s.cloud.UploadRaw(ctx, file, "library", publicID)
}

// UploadCover pushes a cover image to storage and returns its public URL.
func (s *LibraryService) UploadCover(ctx context.Context, file io.Reader) (string, error) {
	if s.cloud == nil {
		return "", ErrStorageUnavailable
	}
	publicID := "cover_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := s.cloud.UploadImage(ctx, file, "covers", publicID)
	return url, err
}

// LibraryStats is the admin dashboard aggregate.
type LibraryStats struct {
	TotalMaterials  int64            `json:"totalMaterials"`
	TotalDownloads  int64            `json:"totalDownloads"`
	MaterialsByType map[string]int64 `json:"materialsByType"`
}

func (s *LibraryService) Stats() (*LibraryStats, error) {
	totalMaterials, err := s.repo.CountMaterials()
	if err != nil {
		return nil, err
	}
	totalDownloads, err := s.repo.CountDownloads()
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.CountByType()
	if err != nil {
		return nil, err
	}
	return &LibraryStats{
		TotalMaterials:  totalMaterials,
		TotalDownloads:  totalDownloads,
		MaterialsByType: byType,
	}, nil
}
