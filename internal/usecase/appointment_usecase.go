package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/apperror"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentTimeRequired   = apperror.Validation("Please select a time slot")
	ErrAppointmentFieldsRequired = apperror.Validation("Please fill all the fields")
	ErrInvalidDate               = apperror.Validation("Invalid date format. Use YYYY-MM-DD")
	ErrInvalidTime               = apperror.Validation("Invalid time format. Use HH:MM")
	ErrAppointmentDatePast       = apperror.Validation("Appointment date cannot be in the past")
	ErrDoctorNotFound            = apperror.NotFound("Doctor not found")
	ErrDoctorAmbiguous           = apperror.Conflict("Doctor Conflict! Please Contact Through Email or Phone!")
	ErrDoctorBusy                = apperror.Conflict("Doctor already has an appointment at this time. Please choose a different date/time")
	ErrTimeOffGrid               = apperror.Validation("Selected time is not one of the doctor's available slots")
	ErrAppointmentNotFound       = apperror.NotFound("Appointment not found")
	ErrRescheduleDateRequired    = apperror.Validation("Please provide new appointment date")
	ErrRescheduleDatePast        = apperror.Validation("Cannot reschedule to a past date")
	ErrRescheduleConflict        = apperror.Conflict("Doctor already has an appointment at this time")
	ErrRescheduleNotOwner        = apperror.Authorization("Not authorized to reschedule this appointment")
	ErrCancelNotOwner            = apperror.Authorization("Not authorized to cancel this appointment")
	ErrInvalidAppointmentStatus  = apperror.Validation("Invalid status. Use: Pending, Accepted, or Rejected")
	ErrInvalidPaymentStatus      = apperror.Validation("Invalid payment status. Use: Pending, Completed, or Failed")
	ErrUpdateNotOwner            = apperror.Authorization("Not authorized to update this appointment")
	ErrNotesRequired             = apperror.Validation("Please provide notes or prescription")
	ErrNotesNotOwner             = apperror.Authorization("Not authorized to add notes to this appointment")
	ErrEmptyPatch                = apperror.Validation("No fields to update")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) error
	DoctorUpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	AdminUpdateAppointment(ctx context.Context, id uuid.UUID, patch dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	AdminDeleteAppointment(ctx context.Context, id uuid.UUID) error
	AddAppointmentNotes(ctx context.Context, id uuid.UUID, req *dto.AddAppointmentNotesRequest) (*dto.AppointmentResponse, error)
	MarkPaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	tx              database.Transactor
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	resolver        service.AvailabilityResolver
	locker          service.SlotLocker
	auditService    service.AuditService
	events          service.EventPublisher
	clock           clinicClock
}

func NewAppointmentUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	resolver service.AvailabilityResolver,
	locker service.SlotLocker,
	auditService service.AuditService,
	events service.EventPublisher,
	loc *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		tx:              tx,
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		resolver:        resolver,
		locker:          locker,
		auditService:    auditService,
		events:          events,
		clock:           newClinicClock(loc),
	}
}

// CreateAppointment books a slot for the calling patient.
//
// Checks run in a fixed order and the first failure is returned:
// 1. appointment_time present, then every other field
// 2. date not before today
// 3. exactly one doctor matches name and department
// 4. no slot-blocking appointment at (doctor, date, time)
// 5. a rule governs the date and the time is on its slot grid
//
// Steps 4 and 5 and the insert run under the (doctor, date) slot lock and in
// one transaction. The appointments unique index backs the lock.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.AppointmentTime) == "" {
		return nil, ErrAppointmentTimeRequired
	}
	if !createRequestComplete(req) {
		return nil, ErrAppointmentFieldsRequired
	}

	date, err := schedule.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	slotTime, err := schedule.ParseClock(req.AppointmentTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	if schedule.IsPast(date, u.clock.today()) {
		return nil, ErrAppointmentDatePast
	}

	doctors, err := u.userRepo.FindDoctorsByNameAndDepartment(u.tx.Conn(ctx), req.DoctorFirstName, req.DoctorLastName, req.Department)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s %s (%s): %+v", req.DoctorFirstName, req.DoctorLastName, req.Department, err)
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	switch len(doctors) {
	case 0:
		return nil, ErrDoctorNotFound
	case 1:
	default:
		return nil, ErrDoctorAmbiguous
	}
	doctor := doctors[0]

	appointment := &entity.Appointment{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DOB:             req.DOB,
		Gender:          req.Gender,
		Address:         req.Address,
		AppointmentDate: date.String(),
		AppointmentTime: slotTime.String(),
		Department:      req.Department,
		Doctor: entity.DoctorSnapshot{
			FirstName: req.DoctorFirstName,
			LastName:  req.DoctorLastName,
		},
		DoctorID:      doctor.ID,
		PatientID:     patientID,
		Status:        entity.AppointmentStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
	}

	err = u.locker.WithLock(ctx, doctor.ID, date.String(), func(ctx context.Context) error {
		return u.tx.Transaction(ctx, func(tx *gorm.DB) error {
			if err := u.ensureSlotFree(tx, repository.ConflictQuery{
				DoctorID: doctor.ID,
				Date:     appointment.AppointmentDate,
				Time:     appointment.AppointmentTime,
			}, ErrDoctorBusy); err != nil {
				return err
			}

			if err := u.ensureBookable(ctx, tx, doctor.ID, date, slotTime); err != nil {
				return err
			}

			if err := u.appointmentRepo.Create(tx, appointment); err != nil {
				if errors.Is(err, repository.ErrSlotTaken) {
					return ErrDoctorBusy
				}
				u.log.Warnf("Failed to create appointment for doctor %s on %s %s: %+v", doctor.ID, appointment.AppointmentDate, appointment.AppointmentTime, err)
				return fmt.Errorf("create appointment: %w", err)
			}

			return u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment)
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s booked with doctor %s on %s at %s", appointment.ID, doctor.ID, appointment.AppointmentDate, appointment.AppointmentTime)
	u.publish(ctx, entity.AuditActionAppointmentCreate, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

// RescheduleAppointment moves the caller's appointment to a new date and,
// optionally, a new time. The record is updated in place and reset to Pending.
func (u *appointmentUsecase) RescheduleAppointment(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	patientID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.AppointmentDate) == "" {
		return nil, ErrRescheduleDateRequired
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patientID {
		return nil, ErrRescheduleNotOwner
	}

	date, err := schedule.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	newTime := ""
	if req.AppointmentTime != "" {
		c, err := schedule.ParseClock(req.AppointmentTime)
		if err != nil {
			return nil, ErrInvalidTime
		}
		newTime = c.String()
	}
	if schedule.IsPast(date, u.clock.today()) {
		return nil, ErrRescheduleDatePast
	}

	var before entity.Appointment
	err = u.locker.WithLock(ctx, appointment.DoctorID, date.String(), func(ctx context.Context) error {
		return u.tx.Transaction(ctx, func(tx *gorm.DB) error {
			current, err := u.findAppointment(tx, id)
			if err != nil {
				return err
			}
			before = *current

			effective := current.AppointmentTime
			if newTime != "" {
				effective = newTime
			}
			slotTime, err := schedule.ParseClock(effective)
			if err != nil {
				return ErrInvalidTime
			}

			rule, err := u.resolve(ctx, tx, current.DoctorID, date)
			if err != nil {
				return err
			}

			// Without a new time any other booking on the date counts as a clash.
			if err := u.ensureSlotFree(tx, repository.ConflictQuery{
				DoctorID:  current.DoctorID,
				Date:      date.String(),
				Time:      newTime,
				ExcludeID: &current.ID,
			}, ErrRescheduleConflict); err != nil {
				return err
			}

			if err := checkOnGrid(rule, slotTime); err != nil {
				return err
			}

			current.ResetForReschedule(date.String(), newTime)
			if err := u.appointmentRepo.Save(tx, current); err != nil {
				if errors.Is(err, repository.ErrSlotTaken) {
					return ErrRescheduleConflict
				}
				u.log.Warnf("Failed to reschedule appointment %s: %+v", id, err)
				return fmt.Errorf("save appointment: %w", err)
			}
			appointment = current

			return u.auditService.LogUpdate(ctx, tx, &patientID, entity.AuditActionAppointmentReschedule, "appointment", id.String(),
				slotSummary(&before), slotSummary(current))
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s rescheduled from %s %s to %s %s", id, before.AppointmentDate, before.AppointmentTime, appointment.AppointmentDate, appointment.AppointmentTime)
	u.publish(ctx, entity.AuditActionAppointmentReschedule, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment deletes the caller's own appointment.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	patientID, err := actorID(ctx)
	if err != nil {
		return err
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return err
	}
	if appointment.PatientID != patientID {
		return ErrCancelNotOwner
	}

	if err := u.deleteAppointment(ctx, &patientID, appointment, entity.AuditActionAppointmentCancel); err != nil {
		return err
	}

	u.log.Infof("Appointment %s cancelled by patient %s", id, patientID)
	u.publish(ctx, entity.AuditActionAppointmentCancel, appointment)
	return nil
}

func (u *appointmentUsecase) DoctorUpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	doctorID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	status := entity.AppointmentStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidAppointmentStatus
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrUpdateNotOwner
	}

	updated, err := u.applyUpdates(ctx, &doctorID, appointment, map[string]interface{}{"status": status}, entity.AuditActionAppointmentStatus)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s status set to %s by doctor %s", id, status, doctorID)
	u.publish(ctx, entity.AuditActionAppointmentStatus, updated)
	return converter.AppointmentToResponse(updated), nil
}

// AdminUpdateAppointment applies a generic field patch. Only whitelisted
// fields are accepted and enum values are checked.
func (u *appointmentUsecase) AdminUpdateAppointment(ctx context.Context, id uuid.UUID, patch dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	adminID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return nil, err
	}

	fields, err := adminPatchColumns(patch)
	if err != nil {
		return nil, err
	}

	updated, err := u.applyUpdates(ctx, &adminID, appointment, fields, entity.AuditActionAppointmentUpdate)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s updated by admin %s", id, adminID)
	u.publish(ctx, entity.AuditActionAppointmentUpdate, updated)
	return converter.AppointmentToResponse(updated), nil
}

func (u *appointmentUsecase) AdminDeleteAppointment(ctx context.Context, id uuid.UUID) error {
	adminID, err := actorID(ctx)
	if err != nil {
		return err
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return err
	}

	if err := u.deleteAppointment(ctx, &adminID, appointment, entity.AuditActionAppointmentDelete); err != nil {
		return err
	}

	u.log.Infof("Appointment %s deleted by admin %s", id, adminID)
	u.publish(ctx, entity.AuditActionAppointmentDelete, appointment)
	return nil
}

// AddAppointmentNotes stores the doctor's notes and/or prescription and
// accepts the appointment in the same write.
func (u *appointmentUsecase) AddAppointmentNotes(ctx context.Context, id uuid.UUID, req *dto.AddAppointmentNotesRequest) (*dto.AppointmentResponse, error) {
	doctorID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if isBlank(req.AppointmentNotes) && isBlank(req.Prescription) {
		return nil, ErrNotesRequired
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotesNotOwner
	}

	fields := map[string]interface{}{"status": entity.AppointmentStatusAccepted}
	if req.AppointmentNotes != nil {
		fields["appointment_notes"] = *req.AppointmentNotes
	}
	if req.Prescription != nil {
		fields["prescription"] = *req.Prescription
	}

	updated, err := u.applyUpdates(ctx, &doctorID, appointment, fields, entity.AuditActionAppointmentNotes)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Notes added to appointment %s by doctor %s", id, doctorID)
	u.publish(ctx, entity.AuditActionAppointmentNotes, updated)
	return converter.AppointmentToResponse(updated), nil
}

// MarkPaymentStatus records the payment outcome reported by the payment provider.
func (u *appointmentUsecase) MarkPaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*dto.AppointmentResponse, error) {
	adminID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	status := entity.PaymentStatus(req.PaymentStatus)
	if !status.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}

	appointment, err := u.findAppointment(u.tx.Conn(ctx), id)
	if err != nil {
		return nil, err
	}

	updated, err := u.applyUpdates(ctx, &adminID, appointment, map[string]interface{}{"payment_status": status}, entity.AuditActionAppointmentPayment)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Appointment %s payment marked %s", id, status)
	u.publish(ctx, entity.AuditActionAppointmentPayment, updated)
	return converter.AppointmentToResponse(updated), nil
}

func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	patientID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.tx.Conn(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, fmt.Errorf("find patient appointments: %w", err)
	}

	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) GetDoctorAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	doctorID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(u.tx.Conn(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, fmt.Errorf("find doctor appointments: %w", err)
	}

	return appointmentList(appointments), nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.tx.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all appointments: %+v", err)
		return nil, fmt.Errorf("find all appointments: %w", err)
	}

	return appointmentList(appointments), nil
}

// =============================================================================
// Helpers
// =============================================================================

func (u *appointmentUsecase) findAppointment(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) ensureSlotFree(tx *gorm.DB, q repository.ConflictQuery, conflictErr error) error {
	existing, err := u.appointmentRepo.FindConflict(tx, q)
	if err != nil {
		u.log.Warnf("Failed to check conflicts for doctor %s on %s: %+v", q.DoctorID, q.Date, err)
		return fmt.Errorf("find conflicting appointment: %w", err)
	}
	if existing != nil {
		return conflictErr
	}
	return nil
}

func (u *appointmentUsecase) resolve(ctx context.Context, tx *gorm.DB, doctorID uuid.UUID, date civil.Date) (*entity.Availability, error) {
	rule, err := u.resolver.Resolve(ctx, tx, doctorID, date)
	if err != nil {
		if !errors.Is(err, service.ErrNotAvailable) {
			u.log.Warnf("Failed to resolve availability for doctor %s on %s: %+v", doctorID, date, err)
		}
		return nil, err
	}
	return rule, nil
}

// ensureBookable requires a governing rule whose slot grid contains t.
func (u *appointmentUsecase) ensureBookable(ctx context.Context, tx *gorm.DB, doctorID uuid.UUID, date civil.Date, t schedule.Clock) error {
	rule, err := u.resolve(ctx, tx, doctorID, date)
	if err != nil {
		return err
	}
	return checkOnGrid(rule, t)
}

func checkOnGrid(rule *entity.Availability, t schedule.Clock) error {
	window, err := rule.Window()
	if err != nil {
		return fmt.Errorf("availability %s has an invalid window: %w", rule.ID, err)
	}
	if !window.OnGrid(t) {
		return ErrTimeOffGrid
	}
	return nil
}

// applyUpdates patches columns and writes the audit row in one transaction,
// then returns the stored record.
func (u *appointmentUsecase) applyUpdates(ctx context.Context, actor *uuid.UUID, appointment *entity.Appointment, fields map[string]interface{}, action string) (*entity.Appointment, error) {
	var updated *entity.Appointment
	err := u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.Updates(tx, appointment.ID, fields); err != nil {
			if errors.Is(err, repository.ErrSlotTaken) {
				return ErrDoctorBusy
			}
			u.log.Warnf("Failed to update appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("update appointment: %w", err)
		}

		var err error
		updated, err = u.findAppointment(tx, appointment.ID)
		if err != nil {
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, actor, action, "appointment", appointment.ID.String(), appointment, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *appointmentUsecase) deleteAppointment(ctx context.Context, actor *uuid.UUID, appointment *entity.Appointment, action string) error {
	return u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		affected, err := u.appointmentRepo.Delete(tx, appointment.ID)
		if err != nil {
			u.log.Warnf("Failed to delete appointment %s: %+v", appointment.ID, err)
			return fmt.Errorf("delete appointment: %w", err)
		}
		if affected == 0 {
			return ErrAppointmentNotFound
		}

		return u.auditService.LogDelete(ctx, tx, actor, action, "appointment", appointment.ID.String(), appointment)
	})
}

func (u *appointmentUsecase) publish(ctx context.Context, eventType string, appointment *entity.Appointment) {
	u.events.PublishAppointmentEvent(ctx, service.NewAppointmentEvent(eventType, appointment, u.clock.now()))
}

func createRequestComplete(req *dto.CreateAppointmentRequest) bool {
	for _, v := range []string{
		req.FirstName, req.LastName, req.Email, req.Phone, req.DOB, req.Gender,
		req.AppointmentDate, req.Department, req.DoctorFirstName, req.DoctorLastName,
		req.Address, req.AppointmentTime,
	} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func slotSummary(a *entity.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"appointment_date": a.AppointmentDate,
		"appointment_time": a.AppointmentTime,
		"status":           a.Status,
	}
}

func appointmentList(appointments []entity.Appointment) *dto.AppointmentListResponse {
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}
}
