package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return mapSlotViolation(db.Create(appointment).Error)
}

func (r *appointmentRepository) Save(db *gorm.DB, appointment *entity.Appointment) error {
	return mapSlotViolation(db.Save(appointment).Error)
}

func (r *appointmentRepository) Updates(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	err := db.Model(&entity.Appointment{}).Where("id = ?", id).Updates(fields).Error
	return mapSlotViolation(err)
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.list(db.Where("patient_id = ?", patientID))
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return r.list(db.Where("doctor_id = ?", doctorID))
}

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	return r.list(db)
}

// FindConflict returns one slot-blocking appointment matching q, or nil.
func (r *appointmentRepository) FindConflict(db *gorm.DB, q domainRepo.ConflictQuery) (*entity.Appointment, error) {
	query := db.Where("doctor_id = ? AND appointment_date = ? AND status <> ?",
		q.DoctorID, q.Date, entity.AppointmentStatusRejected)
	if q.Time != "" {
		query = query.Where("appointment_time = ?", q.Time)
	}
	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	var appointment entity.Appointment
	if err := query.First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBookedTimes(db *gorm.DB, doctorID uuid.UUID, date string) ([]string, error) {
	var times []string
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status <> ?", doctorID, date, entity.AppointmentStatusRejected).
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *appointmentRepository) list(query *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := query.Order("appointment_date DESC, appointment_time DESC, created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}
