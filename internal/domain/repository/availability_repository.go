package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAvailabilityExists is returned when a rule for the same doctor and date
// or weekday was inserted concurrently.
var ErrAvailabilityExists = errors.New("availability already exists")

type AvailabilityRepository interface {
	Create(db *gorm.DB, availability *entity.Availability) error
	Update(db *gorm.DB, availability *entity.Availability) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Availability, error)

	// Upsert lookups ignore the active flag.
	FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) (*entity.Availability, error)
	FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek string) (*entity.Availability, error)

	FindActiveByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) (*entity.Availability, error)
	FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek string) (*entity.Availability, error)
	FindActiveByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Availability, error)
}
