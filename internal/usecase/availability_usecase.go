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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgNotAvailableOnDay = "Doctor not available on this day"

var (
	ErrDateTimesRequired        = apperror.Validation("Please provide startTime and endTime")
	ErrWeeklyFieldsRequired     = apperror.Validation("Please provide dayOfWeek, startTime, and endTime")
	ErrAvailabilityModeConflict = apperror.Validation("Provide either date or dayOfWeek, not both")
	ErrInvalidDayOfWeek         = apperror.Validation("Invalid day of week")
	ErrAvailabilityDatePast     = apperror.Validation("Cannot set availability for past dates")
	ErrStartAfterEnd            = apperror.Validation("Start time must be before end time")
	ErrInvalidSlotDuration      = apperror.Validation("Slot duration must be between 1 and 480 minutes")
	ErrAvailabilityNotFound     = apperror.NotFound("Availability not found")
	ErrAvailabilityUpdateOwner  = apperror.Authorization("Not authorized to update this availability")
	ErrAvailabilityDeleteOwner  = apperror.Authorization("Not authorized to delete this availability")
	ErrAvailabilityRace         = apperror.Conflict("Availability was changed concurrently, please retry")
	ErrSlotsQueryRequired       = apperror.Validation("Please provide doctorId and date")
	ErrInvalidDoctorID          = apperror.Validation("Invalid doctor id")
)

const maxSlotDuration = 480

type AvailabilityUsecase interface {
	SetAvailability(ctx context.Context, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetDoctorAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	DeleteAvailability(ctx context.Context, id uuid.UUID) error
	GetAvailableSlots(ctx context.Context, query dto.AvailableSlotsQuery) (*dto.AvailableSlotsResponse, error)
}

type availabilityUsecase struct {
	tx               database.Transactor
	log              *logrus.Logger
	userRepo         repository.UserRepository
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	resolver         service.AvailabilityResolver
	auditService     service.AuditService
	clock            clinicClock
}

func NewAvailabilityUsecase(
	tx database.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	resolver service.AvailabilityResolver,
	auditService service.AuditService,
	loc *time.Location,
) AvailabilityUsecase {
	return &availabilityUsecase{
		tx:               tx,
		log:              log,
		userRepo:         userRepo,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		resolver:         resolver,
		auditService:     auditService,
		clock:            newClinicClock(loc),
	}
}

// SetAvailability creates or replaces the calling doctor's rule for a date
// or a weekday. A rule found for the key is updated whatever its active state.
func (u *availabilityUsecase) SetAvailability(ctx context.Context, req *dto.SetAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	doctorID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	key, err := u.availabilityKey(req)
	if err != nil {
		return nil, err
	}

	slotDuration := req.SlotDuration
	if slotDuration == 0 {
		slotDuration = entity.DefaultSlotDuration
	}
	if err := validateWindow(req.StartTime, req.EndTime, slotDuration); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var saved *entity.Availability
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.findByKey(tx, doctorID, key)
		if err != nil {
			return err
		}

		if existing == nil {
			saved = &entity.Availability{
				DoctorID:     doctorID,
				Date:         key.date,
				DayOfWeek:    key.dayOfWeek,
				StartTime:    req.StartTime,
				EndTime:      req.EndTime,
				SlotDuration: slotDuration,
				IsActive:     isActive,
			}
			if err := u.availabilityRepo.Create(tx, saved); err != nil {
				if errors.Is(err, repository.ErrAvailabilityExists) {
					return ErrAvailabilityRace
				}
				u.log.Warnf("Failed to create availability for doctor %s: %+v", doctorID, err)
				return fmt.Errorf("create availability: %w", err)
			}
			return u.auditService.LogCreate(ctx, tx, &doctorID, entity.AuditActionAvailabilitySet, "availability", saved.ID.String(), saved)
		}

		before := *existing
		existing.StartTime = req.StartTime
		existing.EndTime = req.EndTime
		existing.SlotDuration = slotDuration
		existing.IsActive = isActive
		if err := u.availabilityRepo.Update(tx, existing); err != nil {
			u.log.Warnf("Failed to update availability %s: %+v", existing.ID, err)
			return fmt.Errorf("update availability: %w", err)
		}
		saved = existing
		return u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionAvailabilitySet, "availability", existing.ID.String(), &before, existing)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Availability %s set for doctor %s (%s %s-%s)", saved.ID, doctorID, key, saved.StartTime, saved.EndTime)
	return converter.AvailabilityToResponse(saved), nil
}

func (u *availabilityUsecase) GetDoctorAvailability(ctx context.Context, doctorID uuid.UUID) (*dto.AvailabilityListResponse, error) {
	db := u.tx.Conn(ctx)

	if _, err := u.findDoctor(db, doctorID); err != nil {
		return nil, err
	}

	rules, err := u.availabilityRepo.FindActiveByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find availability for doctor %s: %+v", doctorID, err)
		return nil, fmt.Errorf("find availability: %w", err)
	}

	return &dto.AvailabilityListResponse{
		Availability: converter.AvailabilitiesToResponses(rules),
		Total:        len(rules),
	}, nil
}

// UpdateAvailability patches the window or active flag of an owned rule. The
// merged window is validated as a whole.
func (u *availabilityUsecase) UpdateAvailability(ctx context.Context, id uuid.UUID, req *dto.UpdateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	doctorID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entity.Availability
	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		rule, err := u.findOwned(tx, id, doctorID, ErrAvailabilityUpdateOwner)
		if err != nil {
			return err
		}
		before := *rule

		if req.StartTime != nil {
			rule.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			rule.EndTime = *req.EndTime
		}
		if req.SlotDuration != nil {
			rule.SlotDuration = *req.SlotDuration
		}
		if req.IsActive != nil {
			rule.IsActive = *req.IsActive
		}
		if err := validateWindow(rule.StartTime, rule.EndTime, rule.SlotDuration); err != nil {
			return err
		}

		if err := u.availabilityRepo.Update(tx, rule); err != nil {
			u.log.Warnf("Failed to update availability %s: %+v", id, err)
			return fmt.Errorf("update availability: %w", err)
		}
		updated = rule
		return u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionAvailabilityUpdate, "availability", id.String(), &before, rule)
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Availability %s updated by doctor %s", id, doctorID)
	return converter.AvailabilityToResponse(updated), nil
}

// DeleteAvailability removes an owned rule. Appointments already booked
// against it are left as they are.
func (u *availabilityUsecase) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	doctorID, err := actorID(ctx)
	if err != nil {
		return err
	}

	err = u.tx.Transaction(ctx, func(tx *gorm.DB) error {
		rule, err := u.findOwned(tx, id, doctorID, ErrAvailabilityDeleteOwner)
		if err != nil {
			return err
		}

		affected, err := u.availabilityRepo.Delete(tx, id)
		if err != nil {
			u.log.Warnf("Failed to delete availability %s: %+v", id, err)
			return fmt.Errorf("delete availability: %w", err)
		}
		if affected == 0 {
			return ErrAvailabilityNotFound
		}
		return u.auditService.LogDelete(ctx, tx, &doctorID, entity.AuditActionAvailabilityDelete, "availability", id.String(), rule)
	})
	if err != nil {
		return err
	}

	u.log.Infof("Availability %s deleted by doctor %s", id, doctorID)
	return nil
}

// GetAvailableSlots expands the rule governing the date into slots and marks
// the ones already held by a non-rejected appointment. No rule is not an error.
func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, query dto.AvailableSlotsQuery) (*dto.AvailableSlotsResponse, error) {
	if strings.TrimSpace(query.DoctorID) == "" || strings.TrimSpace(query.Date) == "" {
		return nil, ErrSlotsQueryRequired
	}
	doctorID, err := uuid.Parse(query.DoctorID)
	if err != nil {
		return nil, ErrInvalidDoctorID
	}
	date, err := schedule.ParseDate(query.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	db := u.tx.Conn(ctx)

	doctor, err := u.findDoctor(db, doctorID)
	if err != nil {
		return nil, err
	}

	res := &dto.AvailableSlotsResponse{
		DoctorID:   doctorID,
		DoctorName: doctor.FirstName,
		Date:       date.String(),
		Slots:      []schedule.Slot{},
	}

	rule, err := u.resolver.Resolve(ctx, db, doctorID, date)
	if errors.Is(err, service.ErrNotAvailable) {
		res.Message = msgNotAvailableOnDay
		return res, nil
	}
	if err != nil {
		u.log.Warnf("Failed to resolve availability for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	window, err := rule.Window()
	if err != nil {
		return nil, fmt.Errorf("availability %s has an invalid window: %w", rule.ID, err)
	}

	booked, err := u.appointmentRepo.FindBookedTimes(db, doctorID, date.String())
	if err != nil {
		u.log.Warnf("Failed to find booked times for doctor %s on %s: %+v", doctorID, date, err)
		return nil, fmt.Errorf("find booked times: %w", err)
	}

	res.Availability = converter.AvailabilityToResponse(rule)
	res.Slots = schedule.GenerateSlots(window, schedule.NewTimeSet(booked...))
	return res, nil
}

// =============================================================================
// Helpers
// =============================================================================

// ruleKey identifies a rule by exactly one of date or weekday.
type ruleKey struct {
	date      *string
	dayOfWeek *string
}

func (k ruleKey) String() string {
	if k.date != nil {
		return *k.date
	}
	return *k.dayOfWeek
}

func (u *availabilityUsecase) availabilityKey(req *dto.SetAvailabilityRequest) (ruleKey, error) {
	if req.Date != "" && req.DayOfWeek != "" {
		return ruleKey{}, ErrAvailabilityModeConflict
	}

	if req.Date != "" {
		if req.StartTime == "" || req.EndTime == "" {
			return ruleKey{}, ErrDateTimesRequired
		}
		date, err := schedule.ParseDate(req.Date)
		if err != nil {
			return ruleKey{}, ErrInvalidDate
		}
		if schedule.IsPast(date, u.clock.today()) {
			return ruleKey{}, ErrAvailabilityDatePast
		}
		normalized := date.String()
		return ruleKey{date: &normalized}, nil
	}

	if req.DayOfWeek == "" || req.StartTime == "" || req.EndTime == "" {
		return ruleKey{}, ErrWeeklyFieldsRequired
	}
	day, ok := schedule.ParseWeekday(req.DayOfWeek)
	if !ok {
		return ruleKey{}, ErrInvalidDayOfWeek
	}
	name := string(day)
	return ruleKey{dayOfWeek: &name}, nil
}

func (u *availabilityUsecase) findByKey(tx *gorm.DB, doctorID uuid.UUID, key ruleKey) (*entity.Availability, error) {
	var (
		rule *entity.Availability
		err  error
	)
	if key.date != nil {
		rule, err = u.availabilityRepo.FindByDoctorAndDate(tx, doctorID, *key.date)
	} else {
		rule, err = u.availabilityRepo.FindByDoctorAndDay(tx, doctorID, *key.dayOfWeek)
	}
	if err != nil {
		u.log.Warnf("Failed to find availability %s for doctor %s: %+v", key, doctorID, err)
		return nil, fmt.Errorf("find availability: %w", err)
	}
	return rule, nil
}

func (u *availabilityUsecase) findOwned(tx *gorm.DB, id, doctorID uuid.UUID, notOwner error) (*entity.Availability, error) {
	rule, err := u.availabilityRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find availability %s: %+v", id, err)
		return nil, fmt.Errorf("find availability: %w", err)
	}
	if rule == nil {
		return nil, ErrAvailabilityNotFound
	}
	if rule.DoctorID != doctorID {
		return nil, notOwner
	}
	return rule, nil
}

func (u *availabilityUsecase) findDoctor(db *gorm.DB, doctorID uuid.UUID) (*entity.User, error) {
	doctor, err := u.userRepo.FindDoctorByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func validateWindow(startTime, endTime string, slotDuration int) error {
	if slotDuration < 1 || slotDuration > maxSlotDuration {
		return ErrInvalidSlotDuration
	}
	_, err := schedule.NewWindow(startTime, endTime, slotDuration)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, schedule.ErrInvalidTime):
		return ErrInvalidTime
	case errors.Is(err, schedule.ErrInvalidWindow):
		return ErrStartAfterEnd
	default:
		return ErrInvalidSlotDuration
	}
}
