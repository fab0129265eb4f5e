package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindDoctorByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.first(db.Where("id = ? AND role = ?", id, entity.RoleDoctor))
}

// FindDoctorsByNameAndDepartment returns every doctor matching the triple so
// callers can tell "none" from "ambiguous". Two rows are enough for that.
func (r *userRepository) FindDoctorsByNameAndDepartment(db *gorm.DB, firstName, lastName, department string) ([]entity.User, error) {
	var doctors []entity.User
	err := db.
		Where("first_name = ? AND last_name = ? AND doctor_department = ? AND role = ?",
			firstName, lastName, department, entity.RoleDoctor).
		Limit(2).
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
