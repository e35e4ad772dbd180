package service

import (
	"testing"

	"associapro/internal/domain"
	"associapro/internal/models"
	"associapro/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLibraryService(db *gorm.DB) *LibraryService {
	return NewLibraryService(repository.NewLibraryRepository(db), newNotificationService(db), nil)
}

func createMaterial(t *testing.T, svc *LibraryService, title, mtype, category string) *models.LibraryMaterial {
	t.Helper()
	m := &models.LibraryMaterial{
		Title:    title,
		Type:     mtype,
		Category: category,
		FileURL:  "https://cdn.test/" + title + ".pdf",
	}
	require.NoError(t, svc.AddMaterial(m))
	return m
}

func TestAddMaterialBroadcastsToMembers(t *testing.T) {
	db := setupDB(t)
	svc := newLibraryService(db)
	u := createUser(t, db, "maria@test.com")

	createMaterial(t, svc, "Manual de Ética", domain.MaterialTypePDF, "etica")

	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&n).Error)
	require.Equal(t, "Novo material disponível", n.Title)
	require.Equal(t, domain.NotificationTypeMaterial, n.Type)
}

func TestListMaterialsFilterPriority(t *testing.T) {
	db := setupDB(t)
	svc := newLibraryService(db)
	createMaterial(t, svc, "Revista Abril", domain.MaterialTypeMagazine, "revistas")
	createMaterial(t, svc, "Guia Clínico", domain.MaterialTypeEbook, "clinica")

	// Search wins over type and category filters.
	got, err := svc.ListMaterials(domain.MaterialTypeMagazine, "clinica", "Guia")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Guia Clínico", got[0].Title)

	got, err = svc.ListMaterials(domain.MaterialTypeMagazine, "", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Revista Abril", got[0].Title)

	got, err = svc.ListMaterials("", "clinica", "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.ListMaterials("", "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestRegisterDownloadCountsAndHistory(t *testing.T) {
	db := setupDB(t)
	svc := newLibraryService(db)
	u := createUser(t, db, "leitor@test.com")
	m := createMaterial(t, svc, "Anuário", domain.MaterialTypePDF, "geral")

	require.NoError(t, svc.RegisterDownload(u.ID, m.ID))
	require.NoError(t, svc.RegisterDownload(u.ID, m.ID))

	got, err := svc.GetMaterial(m.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.DownloadCount)

	history, err := svc.UserDownloads(u.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestRegisterDownloadUnknownMaterial(t *testing.T) {
	db := setupDB(t)
	svc := newLibraryService(db)
	u := createUser(t, db, "x@test.com")

	err := svc.RegisterDownload(u.ID, 999)
	require.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestLibraryStats(t *testing.T) {
	db := setupDB(t)
	svc := newLibraryService(db)
	u := createUser(t, db, "maria@test.com")
	ebook := createMaterial(t, svc, "Ebook A", domain.MaterialTypeEbook, "geral")
	createMaterial(t, svc, "Ebook B", domain.MaterialTypeEbook, "geral")
	createMaterial(t, svc, "Revista C", domain.MaterialTypeMagazine, "revistas")

	require.NoError(t, svc.RegisterDownload(u.ID, ebook.ID))

	stats, err := svc.Stats()
	require.NoError(t, err)
	require.EqualValues(t, 3, stats.TotalMaterials)
	require.EqualValues(t, 1, stats.TotalDownloads)
	require.EqualValues(t, 2, stats.MaterialsByType[domain.MaterialTypeEbook])
	require.EqualValues(t, 1, stats.MaterialsByType[domain.MaterialTypeMagazine])
}

func TestPopularMaterialsOrder(t *testing.T) {
	db := setupDB(t)
	svc := newLibraryService(db)
	u := createUser(t, db, "maria@test.com")
	a := createMaterial(t, svc, "Pouco baixado", domain.MaterialTypePDF, "geral")
	b := createMaterial(t, svc, "Muito baixado", domain.MaterialTypePDF, "geral")

	require.NoError(t, svc.RegisterDownload(u.ID, a.ID))
	require.NoError(t, svc.RegisterDownload(u.ID, b.ID))
	require.NoError(t, svc.RegisterDownload(u.ID, b.ID))

	popular, err := svc.PopularMaterials(1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	require.Equal(t, "Muito baixado", popular[0].Title)
}
