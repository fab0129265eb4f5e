package usecase

import (
	"context"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAvailabilityValidation(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)

	testCases := []struct {
		name    string
		req     dto.SetAvailabilityRequest
		wantErr error
	}{
		{"both modes", dto.SetAvailabilityRequest{Date: nextMonday, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00"}, ErrAvailabilityModeConflict},
		{"date without times", dto.SetAvailabilityRequest{Date: nextMonday, StartTime: "09:00"}, ErrDateTimesRequired},
		{"weekly without times", dto.SetAvailabilityRequest{DayOfWeek: "Monday", EndTime: "10:00"}, ErrWeeklyFieldsRequired},
		{"nothing", dto.SetAvailabilityRequest{}, ErrWeeklyFieldsRequired},
		{"lowercase day", dto.SetAvailabilityRequest{DayOfWeek: "monday", StartTime: "09:00", EndTime: "10:00"}, ErrInvalidDayOfWeek},
		{"bad date", dto.SetAvailabilityRequest{Date: "2026-13-01", StartTime: "09:00", EndTime: "10:00"}, ErrInvalidDate},
		{"past date", dto.SetAvailabilityRequest{Date: "2026-10-14", StartTime: "09:00", EndTime: "10:00"}, ErrAvailabilityDatePast},
		{"start after end", dto.SetAvailabilityRequest{DayOfWeek: "Monday", StartTime: "11:00", EndTime: "10:00"}, ErrStartAfterEnd},
		{"crosses midnight", dto.SetAvailabilityRequest{Date: nextMonday, StartTime: "22:00", EndTime: "02:00"}, ErrStartAfterEnd},
		{"bad time", dto.SetAvailabilityRequest{DayOfWeek: "Monday", StartTime: "9:00", EndTime: "10:00"}, ErrInvalidTime},
		{"slot too long", dto.SetAvailabilityRequest{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", SlotDuration: 481}, ErrInvalidSlotDuration},
		{"negative slot", dto.SetAvailabilityRequest{DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00", SlotDuration: -5}, ErrInvalidSlotDuration},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := f.availability.SetAvailability(as(doctor), &req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Empty(t, f.store.rules)
}

func TestSetAvailabilityAcceptsFullWorkdaySlot(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)

	rule := f.setWeekly(t, doctor, "Monday", "09:00", "17:00", maxSlotDuration)
	assert.Equal(t, maxSlotDuration, rule.SlotDuration)

	_, err := f.availability.SetAvailability(as(doctor), &dto.SetAvailabilityRequest{
		DayOfWeek: "Tuesday", StartTime: "09:00", EndTime: "17:00", SlotDuration: maxSlotDuration + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)
}

func TestSetAvailabilityUpsertsByKey(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)

	first := f.setWeekly(t, doctor, "Monday", "09:00", "10:00", 0)
	assert.Equal(t, entity.DefaultSlotDuration, first.SlotDuration)
	assert.True(t, first.IsActive)
	assert.Nil(t, first.Date)

	_, err := f.availability.SetAvailability(as(doctor), &dto.SetAvailabilityRequest{
		DayOfWeek: "Monday", StartTime: "13:00", EndTime: "17:00", SlotDuration: 15, IsActive: boolPtr(false),
	})
	require.NoError(t, err)

	second := f.setWeekly(t, doctor, "Monday", "13:00", "16:00", 15)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "16:00", second.EndTime)
	assert.True(t, second.IsActive, "re-setting without a flag reactivates the rule")
	assert.Len(t, f.store.rules, 1)

	override := f.setOverride(t, doctor, nextMonday+"T08:00:00Z", "10:00", "12:00", 30, nil)
	require.NotNil(t, override.Date)
	assert.Equal(t, nextMonday, *override.Date)
	assert.Len(t, f.store.rules, 2)

	assert.Equal(t, []string{
		entity.AuditActionAvailabilitySet,
		entity.AuditActionAvailabilitySet,
		entity.AuditActionAvailabilitySet,
		entity.AuditActionAvailabilitySet,
	}, f.store.auditActions())
}

func TestUpdateAvailability(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)
	other := f.addUser(t, entity.RoleDoctor, "James", "Wilson", "Oncology")
	rule := f.setWeekly(t, doctor, "Monday", "09:00", "10:00", 30)

	_, err := f.availability.UpdateAvailability(as(doctor), uuid.New(), &dto.UpdateAvailabilityRequest{})
	assert.ErrorIs(t, err, ErrAvailabilityNotFound)

	_, err = f.availability.UpdateAvailability(as(other), rule.ID, &dto.UpdateAvailabilityRequest{EndTime: strPtr("12:00")})
	assert.ErrorIs(t, err, ErrAvailabilityUpdateOwner)

	_, err = f.availability.UpdateAvailability(as(doctor), rule.ID, &dto.UpdateAvailabilityRequest{StartTime: strPtr("10:30")})
	assert.ErrorIs(t, err, ErrStartAfterEnd, "merged window must stay ordered")

	res, err := f.availability.UpdateAvailability(as(doctor), rule.ID, &dto.UpdateAvailabilityRequest{
		EndTime:      strPtr("11:00"),
		SlotDuration: intPtr(20),
		IsActive:     boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", res.StartTime)
	assert.Equal(t, "11:00", res.EndTime)
	assert.Equal(t, 20, res.SlotDuration)
	assert.False(t, res.IsActive)

	list, err := f.availability.GetDoctorAvailability(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.Zero(t, list.Total, "inactive rules are not listed")
}

func TestDeleteAvailabilityKeepsAppointments(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)
	other := f.addUser(t, entity.RoleDoctor, "James", "Wilson", "Oncology")
	patient := f.addPatient(t)
	rule := f.setWeekly(t, doctor, "Monday", "09:00", "10:00", 30)
	f.book(t, patient, nextMonday, "09:00")

	assert.ErrorIs(t, f.availability.DeleteAvailability(as(other), rule.ID), ErrAvailabilityDeleteOwner)
	require.NoError(t, f.availability.DeleteAvailability(as(doctor), rule.ID))
	assert.ErrorIs(t, f.availability.DeleteAvailability(as(doctor), rule.ID), ErrAvailabilityNotFound)

	assert.Empty(t, f.store.rules)
	assert.Len(t, f.store.appointments, 1)
}

func TestGetDoctorAvailability(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)
	patient := f.addPatient(t)
	f.setWeekly(t, doctor, "Monday", "09:00", "10:00", 30)
	f.setWeekly(t, doctor, "Wednesday", "13:00", "15:00", 30)

	_, err := f.availability.GetDoctorAvailability(context.Background(), patient.ID)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	list, err := f.availability.GetDoctorAvailability(context.Background(), doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
}

func TestGetAvailableSlots(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)
	patient := f.addPatient(t)
	f.setWeekly(t, doctor, "Monday", "09:00", "10:00", 30)

	t.Run("query validation", func(t *testing.T) {
		_, err := f.availability.GetAvailableSlots(context.Background(), dto.AvailableSlotsQuery{DoctorID: doctor.ID.String()})
		assert.ErrorIs(t, err, ErrSlotsQueryRequired)

		_, err = f.availability.GetAvailableSlots(context.Background(), dto.AvailableSlotsQuery{DoctorID: "abc", Date: nextMonday})
		assert.ErrorIs(t, err, ErrInvalidDoctorID)

		_, err = f.availability.GetAvailableSlots(context.Background(), dto.AvailableSlotsQuery{DoctorID: uuid.NewString(), Date: nextMonday})
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("no rule is an empty list", func(t *testing.T) {
		res, err := f.availability.GetAvailableSlots(context.Background(), dto.AvailableSlotsQuery{DoctorID: doctor.ID.String(), Date: nextTuesday})
		require.NoError(t, err)
		assert.NotNil(t, res.Slots)
		assert.Empty(t, res.Slots)
		assert.Equal(t, msgNotAvailableOnDay, res.Message)
		assert.Nil(t, res.Availability)
	})

	t.Run("inactive override falls back to the weekly rule", func(t *testing.T) {
		f.setOverride(t, doctor, nextMonday, "14:00", "15:00", 30, boolPtr(false))

		res, err := f.availability.GetAvailableSlots(context.Background(), dto.AvailableSlotsQuery{DoctorID: doctor.ID.String(), Date: nextMonday})
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "09:30"}, slotLabels(res.Slots))
		assert.Equal(t, "Gregory", res.DoctorName)
	})

	t.Run("rejected bookings leave the slot open", func(t *testing.T) {
		booked := f.book(t, patient, nextMonday, "09:30")
		_, err := f.appointments.DoctorUpdateStatus(as(doctor), booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "Rejected"})
		require.NoError(t, err)

		res, err := f.availability.GetAvailableSlots(context.Background(), dto.AvailableSlotsQuery{DoctorID: doctor.ID.String(), Date: nextMonday})
		require.NoError(t, err)
		for _, s := range res.Slots {
			assert.True(t, s.Available, s.Time)
		}
	})
}

func TestAuditLogUsecase(t *testing.T) {
	f := newFixture(t)
	doctor := f.addDoctor(t)
	f.setWeekly(t, doctor, "Monday", "09:00", "10:00", 30)

	list, err := f.audit.GetAllAuditLogs(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)

	entry, err := f.audit.GetAuditLog(context.Background(), list.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionAvailabilitySet, entry.Action)

	_, err = f.audit.GetAuditLog(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
