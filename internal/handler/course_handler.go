package handler

import (
	"errors"
	"net/http"
	"strconv"

	"associapro/internal/domain"
	"associapro/internal/middleware"
	"associapro/internal/models"
	"associapro/internal/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	svc *service.CourseService
}

func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// List shows published courses to members; admins see everything.
func (h *CourseHandler) List(c *gin.Context) {
	role, _ := c.Get("role")
	publishedOnly := role != domain.RoleAdmin
	courses, err := h.svc.ListCourses(publishedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load courses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// Get returns one course with its modules and lessons.
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	course, err := h.svc.GetCourse(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load course"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course})
}

// Enroll signs the current user up for a course.
func (h *CourseHandler) Enroll(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	enrollment, err := h.svc.Enroll(userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		case errors.Is(err, service.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "already enrolled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enrollment failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"enrollment": enrollment})
}

// Progress updates the user's progress on an enrolled course.
func (h *CourseHandler) Progress(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	var req struct {
		Progress *int `json:"progress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress is required"})
		return
	}
	enrollment, err := h.svc.UpdateProgress(userID, uint(id), *req.Progress)
	if err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "progress update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// MyEnrollments lists the user's enrollments with course data.
func (h *CourseHandler) MyEnrollments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.svc.UserEnrollments(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load enrollments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": list})
}

// Admin endpoints.

func (h *CourseHandler) Create(c *gin.Context) {
	var course models.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.CreateCourse(&course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"course": course})
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	existing, err := h.svc.GetCourse(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	wasPublished := existing.Published
	if err := c.ShouldBindJSON(existing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existing.ID = uint(id)
	if err := h.svc.UpdateCourse(existing, wasPublished); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": existing})
}

func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	if err := h.svc.DeleteCourse(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CourseHandler) AddModule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}
	var m models.CourseModule
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.CourseID = uint(id)
	if err := h.svc.AddModule(&m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"module": m})
}

func (h *CourseHandler) AddLesson(c *gin.Context) {
	moduleID, err := strconv.ParseUint(c.Param("module_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid module id"})
		return
	}
	var l models.Lesson
	if err := c.ShouldBindJSON(&l); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l.ModuleID = uint(moduleID)
	if err := h.svc.AddLesson(&l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lesson": l})
}
