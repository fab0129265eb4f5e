package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// Thursday 2026-10-15; the following Monday is 2026-10-19.
var fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

const (
	nextMonday  = "2026-10-19"
	nextTuesday = "2026-10-20"
)

type fixture struct {
	store        *memStore
	events       *recordingPublisher
	locker       *service.LocalSlotLocker
	appointments *appointmentUsecase
	availability *availabilityUsecase
	audit        AuditLogUsecase
}

func newTestLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := newTestLogger()
	store := newMemStore()
	users := memUserRepo{store}
	rules := memAvailabilityRepo{store}
	appointments := memAppointmentRepo{store}
	auditRepo := memAuditRepo{store}

	resolver := service.NewAvailabilityResolver(rules)
	auditService := service.NewAuditService(log, auditRepo)
	events := &recordingPublisher{}
	locker := service.NewLocalSlotLocker(log, 5*time.Second)
	t.Cleanup(locker.Stop)

	appointmentUC := NewAppointmentUsecase(fakeTransactor{}, log, users, appointments, resolver, locker, auditService, events, time.UTC).(*appointmentUsecase)
	appointmentUC.clock.now = func() time.Time { return fixedNow }

	availabilityUC := NewAvailabilityUsecase(fakeTransactor{}, log, users, rules, appointments, resolver, auditService, time.UTC).(*availabilityUsecase)
	availabilityUC.clock.now = func() time.Time { return fixedNow }

	return &fixture{
		store:        store,
		events:       events,
		locker:       locker,
		appointments: appointmentUC,
		availability: availabilityUC,
		audit:        NewAuditLogUsecase(fakeTransactor{}, log, auditRepo),
	}
}

func (f *fixture) addUser(t *testing.T, role entity.Role, first, last, department string) *entity.User {
	t.Helper()
	user := &entity.User{
		FirstName:  first,
		LastName:   last,
		Email:      uuid.NewString() + "@clinic.test",
		Role:       role,
		Department: department,
		IsActive:   true,
	}
	require.NoError(t, memUserRepo{f.store}.Create(nil, user))
	return user
}

func (f *fixture) addDoctor(t *testing.T) *entity.User {
	return f.addUser(t, entity.RoleDoctor, "Gregory", "House", "Cardiology")
}

func (f *fixture) addPatient(t *testing.T) *entity.User {
	return f.addUser(t, entity.RolePatient, "Lisa", "Cuddy", "")
}

// setWeekly stores a weekly rule through the usecase, as the doctor would.
func (f *fixture) setWeekly(t *testing.T, doctor *entity.User, day, start, end string, slot int) *dto.AvailabilityResponse {
	t.Helper()
	res, err := f.availability.SetAvailability(as(doctor), &dto.SetAvailabilityRequest{
		DayOfWeek:    day,
		StartTime:    start,
		EndTime:      end,
		SlotDuration: slot,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) setOverride(t *testing.T, doctor *entity.User, date, start, end string, slot int, active *bool) *dto.AvailabilityResponse {
	t.Helper()
	res, err := f.availability.SetAvailability(as(doctor), &dto.SetAvailabilityRequest{
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		SlotDuration: slot,
		IsActive:     active,
	})
	require.NoError(t, err)
	return res
}

func as(user *entity.User) context.Context {
	return middleware.ContextWithUser(context.Background(), user.ID, user.Role)
}

func bookingRequest(date, slot string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		FirstName:       "Lisa",
		LastName:        "Cuddy",
		Email:           "lisa@clinic.test",
		Phone:           "08123456789",
		DOB:             "1980-04-02",
		Gender:          "Female",
		AppointmentDate: date,
		AppointmentTime: slot,
		Department:      "Cardiology",
		DoctorFirstName: "Gregory",
		DoctorLastName:  "House",
		Address:         "Princeton Plainsboro",
	}
}

func (f *fixture) book(t *testing.T, patient *entity.User, date, slot string) *dto.AppointmentResponse {
	t.Helper()
	res, err := f.appointments.CreateAppointment(as(patient), bookingRequest(date, slot))
	require.NoError(t, err)
	return res
}

func slotLabels(slots []schedule.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
