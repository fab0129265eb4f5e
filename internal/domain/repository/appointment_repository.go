package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned when a write would place a second non-rejected
// appointment on the same doctor, date and time.
var ErrSlotTaken = errors.New("appointment slot already taken")

// ConflictQuery selects slot-blocking appointments of one doctor on one date.
// An empty Time widens the search to the whole date.
type ConflictQuery struct {
	DoctorID  uuid.UUID
	Date      string
	Time      string
	ExcludeID *uuid.UUID
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	Save(db *gorm.DB, appointment *entity.Appointment) error
	Updates(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)

	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)

	FindConflict(db *gorm.DB, q ConflictQuery) (*entity.Appointment, error)
	FindBookedTimes(db *gorm.DB, doctorID uuid.UUID, date string) ([]string, error)
}
