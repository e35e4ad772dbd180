package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:128;index" json:"category"`
	Hours       int            `json:"hours"`
	Price       float64        `json:"price"`
	CoverURL    string         `gorm:"size:512" json:"cover_url"`
	Published   bool           `gorm:"default:false;index" json:"published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Modules []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseModule struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"not null;index" json:"course_id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Position int    `gorm:"not null" json:"position"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type Lesson struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ModuleID uint   `gorm:"not null;index" json:"module_id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	VideoURL string `gorm:"size:512" json:"video_url"`
	Duration int    `json:"duration"` // minutes
	Position int    `gorm:"not null" json:"position"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Enrollment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index:idx_enrollments_user_course,unique" json:"user_id"`
	CourseID    uint       `gorm:"not null;index:idx_enrollments_user_course,unique" json:"course_id"`
	Progress    int        `gorm:"default:0" json:"progress"` // percent
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "course_enrollments"
}
