package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) Create(db *gorm.DB, availability *entity.Availability) error {
	return mapAvailabilityViolation(db.Omit("Doctor").Create(availability).Error)
}

func (r *availabilityRepository) Update(db *gorm.DB, availability *entity.Availability) error {
	return db.Omit("Doctor").Save(availability).Error
}

func (r *availabilityRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Availability{})
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Availability, error) {
	return r.first(db.Where("id = ?", id))
}

func (r *availabilityRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) (*entity.Availability, error) {
	return r.first(db.Where("doctor_id = ? AND date = ?", doctorID, date))
}

func (r *availabilityRepository) FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek string) (*entity.Availability, error) {
	return r.first(db.Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek))
}

func (r *availabilityRepository) FindActiveByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) (*entity.Availability, error) {
	return r.first(db.Where("doctor_id = ? AND date = ? AND is_active = ?", doctorID, date, true))
}

func (r *availabilityRepository) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek string) (*entity.Availability, error) {
	return r.first(db.Where("doctor_id = ? AND day_of_week = ? AND is_active = ?", doctorID, dayOfWeek, true))
}

func (r *availabilityRepository) FindActiveByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Availability, error) {
	var rules []entity.Availability
	err := db.
		Where("doctor_id = ? AND is_active = ?", doctorID, true).
		Order("date ASC NULLS LAST, day_of_week ASC, start_time ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *availabilityRepository) first(query *gorm.DB) (*entity.Availability, error) {
	var availability entity.Availability
	if err := query.First(&availability).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}
