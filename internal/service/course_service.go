package service

import (
	"errors"
	"time"

	"associapro/internal/models"
	"associapro/internal/repository"

	"gorm.io/gorm"
)

var ErrAlreadyEnrolled = errors.New("already enrolled")

type CourseService struct {
	repo     *repository.CourseRepository
	notifSvc *NotificationService
}

func NewCourseService(repo *repository.CourseRepository, notifSvc *NotificationService) *CourseService {
	return &CourseService{repo: repo, notifSvc: notifSvc}
}

// CreateCourse stores the course and, when it is published right away,
// broadcasts its availability. Broadcast failures never fail the insert.
func (s *CourseService) CreateCourse(course *models.Course) error {
	if err := s.repo.Create(course); err != nil {
		return err
	}
	if course.Published {
		s.notifSvc.NotifyNewCourse(course.Title)
	}
	return nil
}

func (s *CourseService) GetCourse(id uint) (*models.Course, error) {
	course, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(publishedOnly bool) ([]models.Course, error) {
	return s.repo.List(publishedOnly)
}

// UpdateCourse saves changes and announces a course that just went live.
func (s *CourseService) UpdateCourse(course *models.Course, wasPublished bool) error {
	if err := s.repo.Update(course); err != nil {
		return err
	}
	if course.Published && !wasPublished {
		s.notifSvc.NotifyNewCourse(course.Title)
	}
	return nil
}

func (s *CourseService) DeleteCourse(id uint) error {
	return s.repo.Delete(id)
}

func (s *CourseService) AddModule(m *models.CourseModule) error {
	return s.repo.AddModule(m)
}

func (s *CourseService) AddLesson(l *models.Lesson) error {
	return s.repo.AddLesson(l)
}

// Enroll registers the user on a course; enrolling twice is rejected.
func (s *CourseService) Enroll(userID, courseID uint) (*models.Enrollment, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetEnrollment(userID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	e := &models.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.repo.Enroll(e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateProgress moves the enrollment forward; 100 percent marks the course
// completed, which unlocks certificate generation.
func (s *CourseService) UpdateProgress(userID, courseID uint, progress int) (*models.Enrollment, error) {
	e, err := s.repo.GetEnrollment(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	e.Progress = progress
	if progress == 100 && !e.Completed {
		now := time.Now()
		e.Completed = true
		e.CompletedAt = &now
	}
	if err := s.repo.UpdateEnrollment(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *CourseService) UserEnrollments(userID uint) ([]models.Enrollment, error) {
	return s.repo.ListEnrollmentsByUser(userID)
}
