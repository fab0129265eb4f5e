package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record shared by admins, doctors and patients.
// Doctors additionally carry the department they practise in.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	Role       Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Department string    `gorm:"column:doctor_department;type:varchar(100);index" json:"doctor_department,omitempty"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
