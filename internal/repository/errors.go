package repository

import (
	"errors"

	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"

	activeSlotConstraint  = "ux_appointments_active_slot"
	availabilityDateIndex = "ux_availabilities_doctor_date"
	availabilityDayIndex  = "ux_availabilities_doctor_day"
)

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolationCode && (constraint == "" || pgErr.ConstraintName == constraint)
}

func mapSlotViolation(err error) error {
	if err != nil && isUniqueViolation(err, activeSlotConstraint) {
		return domainRepo.ErrSlotTaken
	}
	return err
}

func mapAvailabilityViolation(err error) error {
	if err != nil && (isUniqueViolation(err, availabilityDateIndex) || isUniqueViolation(err, availabilityDayIndex)) {
		return domainRepo.ErrAvailabilityExists
	}
	return err
}
