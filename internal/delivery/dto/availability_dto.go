package dto

import (
	"time"

	"clinic-booking/internal/domain/schedule"

	"github.com/google/uuid"
)

// Request DTOs

// SetAvailabilityRequest upserts the rule keyed by date or by dayOfWeek.
type SetAvailabilityRequest struct {
	Date         string `json:"date"`
	DayOfWeek    string `json:"dayOfWeek"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	SlotDuration int    `json:"slotDuration" validate:"omitempty,gte=1,lte=480"`
	IsActive     *bool  `json:"isActive"`
}

type UpdateAvailabilityRequest struct {
	StartTime    *string `json:"startTime" validate:"omitempty,hhmm"`
	EndTime      *string `json:"endTime" validate:"omitempty,hhmm"`
	SlotDuration *int    `json:"slotDuration" validate:"omitempty,gte=1,lte=480"`
	IsActive     *bool   `json:"isActive"`
}

type AvailableSlotsQuery struct {
	DoctorID string
	Date     string
}

// Response DTOs

type AvailabilityResponse struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctorId"`
	Date         *string   `json:"date"`
	DayOfWeek    *string   `json:"dayOfWeek"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	SlotDuration int       `json:"slotDuration"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AvailabilityListResponse struct {
	Availability []AvailabilityResponse `json:"availability"`
	Total        int                    `json:"total"`
}

type AvailableSlotsResponse struct {
	DoctorID     uuid.UUID             `json:"doctorId"`
	DoctorName   string                `json:"doctorName"`
	Date         string                `json:"date"`
	Availability *AvailabilityResponse `json:"availability,omitempty"`
	Slots        []schedule.Slot       `json:"slots"`
	Message      string                `json:"message,omitempty"`
}
