package repository

import (
	"associapro/internal/models"

	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *CourseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) List(publishedOnly bool) ([]models.Course, error) {
	var list []models.Course
	q := r.db.Order("created_at DESC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *CourseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Course{}, id).Error
}

func (r *CourseRepository) AddModule(m *models.CourseModule) error {
	return r.db.Create(m).Error
}

func (r *CourseRepository) AddLesson(l *models.Lesson) error {
	return r.db.Create(l).Error
}

func (r *CourseRepository) Enroll(e *models.Enrollment) error {
	return r.db.Create(e).Error
}

func (r *CourseRepository) GetEnrollment(userID, courseID uint) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *CourseRepository) UpdateEnrollment(e *models.Enrollment) error {
	return r.db.Save(e).Error
}

func (r *CourseRepository) ListEnrollmentsByUser(userID uint) ([]models.Enrollment, error) {
	var list []models.Enrollment
	err := r.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
