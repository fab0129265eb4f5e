package service

import (
	"context"
	"fmt"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/domain/schedule"
	"clinic-booking/pkg/apperror"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotAvailable = apperror.Unavailable("Doctor is not available on this date")

// AvailabilityResolver decides which rule governs a doctor's calendar date.
type AvailabilityResolver interface {
	Resolve(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date civil.Date) (*entity.Availability, error)
}

type availabilityResolver struct {
	availabilityRepo repository.AvailabilityRepository
}

func NewAvailabilityResolver(availabilityRepo repository.AvailabilityRepository) AvailabilityResolver {
	return &availabilityResolver{availabilityRepo: availabilityRepo}
}

// Resolve returns the active date-specific rule for the date if there is one,
// otherwise the active weekly rule for its weekday, otherwise ErrNotAvailable.
func (r *availabilityResolver) Resolve(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date civil.Date) (*entity.Availability, error) {
	override, err := r.availabilityRepo.FindActiveByDoctorAndDate(db, doctorID, date.String())
	if err != nil {
		return nil, fmt.Errorf("find date availability: %w", err)
	}
	if override != nil {
		return override, nil
	}

	weekly, err := r.availabilityRepo.FindActiveByDoctorAndDay(db, doctorID, string(schedule.WeekdayOf(date)))
	if err != nil {
		return nil, fmt.Errorf("find weekly availability: %w", err)
	}
	if weekly != nil {
		return weekly, nil
	}

	return nil, ErrNotAvailable
}
