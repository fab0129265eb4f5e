package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:              a.ID,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Email:           a.Email,
		Phone:           a.Phone,
		DOB:             a.DOB,
		Gender:          a.Gender,
		Address:         a.Address,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		Department:      a.Department,
		Doctor: dto.DoctorSnapshotResponse{
			FirstName: a.Doctor.FirstName,
			LastName:  a.Doctor.LastName,
		},
		DoctorID:         a.DoctorID,
		PatientID:        a.PatientID,
		HasVisited:       a.HasVisited,
		Status:           string(a.Status),
		PaymentStatus:    string(a.PaymentStatus),
		AppointmentNotes: a.Notes,
		Prescription:     a.Prescription,
		RescheduledFrom:  a.RescheduledFrom,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
