package handler

import (
	"context"

	"clinic-booking/internal/delivery/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAppointmentUsecase struct {
	mock.Mock
}

func (m *MockAppointmentUsecase) response(args mock.Arguments) (*dto.AppointmentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) list(args mock.Arguments) (*dto.AppointmentListResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AppointmentListResponse), args.Error(1)
}

func (m *MockAppointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return m.response(m.Called(ctx, req))
}

func (m *MockAppointmentUsecase) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	return m.response(m.Called(ctx, id, req))
}

func (m *MockAppointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAppointmentUsecase) DoctorUpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	return m.response(m.Called(ctx, id, req))
}

func (m *MockAppointmentUsecase) AdminUpdateAppointment(ctx context.Context, id uuid.UUID, patch dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return m.response(m.Called(ctx, id, patch))
}

func (m *MockAppointmentUsecase) AdminDeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAppointmentUsecase) AddAppointmentNotes(ctx context.Context, id uuid.UUID, req *dto.AddAppointmentNotesRequest) (*dto.AppointmentResponse, error) {
	return m.response(m.Called(ctx, id, req))
}

func (m *MockAppointmentUsecase) MarkPaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*dto.AppointmentResponse, error) {
	return m.response(m.Called(ctx, id, req))
}

func (m *MockAppointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return m.list(m.Called(ctx))
}

func (m *MockAppointmentUsecase) GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return m.list(m.Called(ctx))
}

func (m *MockAppointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	return m.list(m.Called(ctx))
}

type MockAvailabilityUsecase struct {
	mock.Mock
}

func (m *MockAvailabilityUsecase) SetAvailability(ctx context.Context, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailabilityResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) GetDoctorAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailabilityListResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) UpdateAvailability(ctx context.Context, id uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailabilityResponse), args.Error(1)
}

func (m *MockAvailabilityUsecase) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAvailabilityUsecase) GetAvailableSlots(ctx context.Context, query dto.AvailableSlotsQuery) (*dto.AvailableSlotsResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AvailableSlotsResponse), args.Error(1)
}
