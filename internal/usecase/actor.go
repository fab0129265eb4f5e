package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/schedule"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

var ErrUserNotInContext = errors.New("user not found in context")

func actorID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUserNotInContext
	}
	return userID, nil
}

// clinicClock decides what "today" is for past-date checks.
type clinicClock struct {
	now func() time.Time
	loc *time.Location
}

func newClinicClock(loc *time.Location) clinicClock {
	if loc == nil {
		loc = time.UTC
	}
	return clinicClock{now: time.Now, loc: loc}
}

func (c clinicClock) today() civil.Date {
	return schedule.Today(c.now(), c.loc)
}
