package repository

import (
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository is the read side of the user directory. Doctors are looked
// up here both by id and by the (name, department) triple a patient types.
type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindDoctorByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindDoctorsByNameAndDepartment(db *gorm.DB, firstName, lastName, department string) ([]entity.User, error)
}
