package handler

import (
	"errors"
	"net/http"
	"strconv"

	"associapro/internal/middleware"
	"associapro/internal/models"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	svc *service.LibraryService
}

func NewLibraryHandler(svc *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// List filters materials by type, category or free text search.
func (h *LibraryHandler) List(c *gin.Context) {
	materials, err := h.svc.ListMaterials(c.Query("type"), c.Query("category"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load materials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// Popular lists the most downloaded materials.
func (h *LibraryHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	materials, err := h.svc.PopularMaterials(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load materials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

func (h *LibraryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	m, err := h.svc.GetMaterial(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load material"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"material": m})
}

// Download registers the download and hands back the file URL.
func (h *LibraryHandler) Download(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	m, err := h.svc.GetMaterial(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load material"})
		return
	}
	if err := h.svc.RegisterDownload(userID, uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download registration failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_url": m.FileURL})
}

// MyDownloads lists the user's download history.
func (h *LibraryHandler) MyDownloads(c *gin.Context) {
	userID := middleware.GetUserID(c)
	downloads, err := h.svc.UserDownloads(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load downloads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloads": downloads})
}

// Admin endpoints.

// Create accepts multipart form data with material metadata plus the file
// itself and an optional cover image.
func (h *LibraryHandler) Create(c *gin.Context) {
	m := models.LibraryMaterial{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Type:        c.PostForm("type"),
		Category:    c.PostForm("category"),
	}
	if m.Title == "" || m.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and type are required"})
		return
	}
	if pages := c.PostForm("pages"); pages != "" {
		m.Pages, _ = strconv.Atoi(pages)
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open file"})
			return
		}
		defer f.Close()
		url, err := h.svc.UploadFile(c.Request.Context(), f, fileHeader.Filename)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			return
		}
		m.FileURL = url
	} else if m.FileURL = c.PostForm("file_url"); m.FileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file or file_url is required"})
		return
	}

	if coverHeader, err := c.FormFile("cover"); err == nil {
		f, err := coverHeader.Open()
		if err == nil {
			defer f.Close()
			if url, err := h.svc.UploadCover(c.Request.Context(), f); err == nil {
				m.CoverURL = url
			}
		}
	} else if cover := c.PostForm("cover_url"); cover != "" {
		m.CoverURL = cover
	}

	if err := h.svc.AddMaterial(&m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"material": m})
}

func (h *LibraryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	m, err := h.svc.GetMaterial(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
		return
	}
	if err := c.ShouldBindJSON(m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.ID = uint(id)
	if err := h.svc.UpdateMaterial(m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"material": m})
}

func (h *LibraryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}
	if err := h.svc.DeleteMaterial(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
