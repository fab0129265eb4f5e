package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func AvailabilityToResponse(a *entity.Availability) *dto.AvailabilityResponse {
	if a == nil {
		return nil
	}

	return &dto.AvailabilityResponse{
		ID:           a.ID,
		DoctorID:     a.DoctorID,
		Date:         a.Date,
		DayOfWeek:    a.DayOfWeek,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		SlotDuration: a.SlotDuration,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func AvailabilitiesToResponses(rules []entity.Availability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(rules))
	for i := range rules {
		responses[i] = *AvailabilityToResponse(&rules[i])
	}
	return responses
}
