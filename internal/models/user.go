package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// User is the login identity. A student-role user references exactly one
// Student row through StudentID; admin users carry no student reference.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	PasswordHash string   `json:"-" gorm:"not null;size:100"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index" validate:"required,oneof=admin student"`

	// Serialized NotificationPreferences; empty means all enabled.
	NotificationPrefs datatypes.JSON `json:"notification_prefs" gorm:"type:jsonb"`

	StudentID *uint    `json:"student_id" gorm:"uniqueIndex"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
