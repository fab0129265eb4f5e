package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest carries the patient's demographics and the doctor
// triple exactly as the booking form submits them. Presence is checked by the
// usecase so each missing field class gets its own message.
type CreateAppointmentRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Department      string `json:"department"`
	DoctorFirstName string `json:"doctor_firstName"`
	DoctorLastName  string `json:"doctor_lastName"`
	Address         string `json:"address"`
}

type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointment_date" validate:"omitempty,ymd"`
	AppointmentTime string `json:"appointment_time" validate:"omitempty,hhmm"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

type AddAppointmentNotesRequest struct {
	AppointmentNotes *string `json:"appointmentNotes"`
	Prescription     *string `json:"prescription"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=Pending Completed Failed"`
}

// AdminUpdateAppointmentRequest is a partial patch keyed by JSON field name.
type AdminUpdateAppointmentRequest map[string]interface{}

// Response DTOs

type DoctorSnapshotResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type AppointmentResponse struct {
	ID               uuid.UUID              `json:"id"`
	FirstName        string                 `json:"firstName"`
	LastName         string                 `json:"lastName"`
	Email            string                 `json:"email"`
	Phone            string                 `json:"phone"`
	DOB              string                 `json:"dob"`
	Gender           string                 `json:"gender"`
	Address          string                 `json:"address"`
	AppointmentDate  string                 `json:"appointment_date"`
	AppointmentTime  string                 `json:"appointment_time"`
	Department       string                 `json:"department"`
	Doctor           DoctorSnapshotResponse `json:"doctor"`
	DoctorID         uuid.UUID              `json:"doctorId"`
	PatientID        uuid.UUID              `json:"patientId"`
	HasVisited       bool                   `json:"hasVisited"`
	Status           string                 `json:"status"`
	PaymentStatus    string                 `json:"paymentStatus"`
	AppointmentNotes string                 `json:"appointmentNotes,omitempty"`
	Prescription     string                 `json:"prescription,omitempty"`
	RescheduledFrom  *uuid.UUID             `json:"rescheduledFrom,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
