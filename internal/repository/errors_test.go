package repository

import (
	"errors"
	"fmt"
	"testing"

	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapSlotViolation(t *testing.T) {
	slotErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_appointments_active_slot"}
	otherUnique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "ux_appointments_active_slot"}

	assert.NoError(t, mapSlotViolation(nil))
	assert.ErrorIs(t, mapSlotViolation(slotErr), domainRepo.ErrSlotTaken)
	assert.ErrorIs(t, mapSlotViolation(fmt.Errorf("insert: %w", slotErr)), domainRepo.ErrSlotTaken)
	assert.Equal(t, otherUnique, mapSlotViolation(otherUnique))
	assert.Equal(t, fkErr, mapSlotViolation(fkErr))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapSlotViolation(plain))
}

func TestIsUniqueViolationAnyConstraint(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "x"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}

func TestMapAvailabilityViolation(t *testing.T) {
	dayErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_availabilities_doctor_day"}
	dateErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_availabilities_doctor_date"}
	checkErr := &pgconn.PgError{Code: "23514", ConstraintName: "ck_availabilities_times"}

	assert.ErrorIs(t, mapAvailabilityViolation(dayErr), domainRepo.ErrAvailabilityExists)
	assert.ErrorIs(t, mapAvailabilityViolation(dateErr), domainRepo.ErrAvailabilityExists)
	assert.Equal(t, checkErr, mapAvailabilityViolation(checkErr))
	assert.NoError(t, mapAvailabilityViolation(nil))
}
