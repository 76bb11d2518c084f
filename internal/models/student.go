package models

import (
	"time"

	"gorm.io/gorm"
)

type Student struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Class          string    `json:"class" gorm:"not null;size:50;index" validate:"required,max=50"`
	EnrollmentDate time.Time `json:"enrollment_date" gorm:"not null"`

	// Optional contact details
	Phone         *string `json:"phone" gorm:"size:20"`
	Address       *string `json:"address" gorm:"type:text"`
	GuardianName  *string `json:"guardian_name" gorm:"size:100"`
	GuardianPhone *string `json:"guardian_phone" gorm:"size:20"`

	// Set only when the student has a direct login.
	PasswordHash *string `json:"-" gorm:"size:100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Results []Result `json:"results,omitempty" gorm:"foreignKey:StudentID"`
}

func (Student) TableName() string {
	return "students"
}
