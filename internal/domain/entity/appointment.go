package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the scheduling state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "Pending"
	AppointmentStatusAccepted AppointmentStatus = "Accepted"
	AppointmentStatusRejected AppointmentStatus = "Rejected"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusAccepted, AppointmentStatusRejected:
		return true
	}
	return false
}

// PaymentStatus tracks the payment fact reported by the payment collaborator.
// It is independent of the scheduling status.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// DoctorSnapshot is the doctor's name as it was when the appointment was booked.
type DoctorSnapshot struct {
	FirstName string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName  string `gorm:"type:varchar(100);not null" json:"lastName"`
}

// Appointment is the occupation of one (doctor, date, time) slot. Patient
// demographics are copied at booking time and never re-joined.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FirstName       string            `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName        string            `gorm:"type:varchar(100);not null" json:"lastName"`
	Email           string            `gorm:"type:varchar(255);not null" json:"email"`
	Phone           string            `gorm:"type:varchar(20);not null" json:"phone"`
	DOB             string            `gorm:"column:dob;type:varchar(10);not null" json:"dob"`
	Gender          string            `gorm:"type:varchar(10);not null" json:"gender"`
	Address         string            `gorm:"type:text;not null" json:"address"`
	AppointmentDate string            `gorm:"column:appointment_date;type:varchar(10);not null" json:"appointment_date"`
	AppointmentTime string            `gorm:"column:appointment_time;type:varchar(5);not null" json:"appointment_time"`
	Department      string            `gorm:"type:varchar(100);not null" json:"department"`
	Doctor          DoctorSnapshot    `gorm:"embedded;embeddedPrefix:doctor_" json:"doctor"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctorId"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patientId"`
	HasVisited      bool              `gorm:"not null" json:"hasVisited"`
	Status          AppointmentStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	PaymentStatus   PaymentStatus     `gorm:"type:varchar(10);not null" json:"paymentStatus"`
	Notes           string            `gorm:"column:appointment_notes;type:text" json:"appointmentNotes,omitempty"`
	Prescription    string            `gorm:"type:text" json:"prescription,omitempty"`
	RescheduledFrom *uuid.UUID        `gorm:"type:uuid" json:"rescheduledFrom,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// BlocksSlot reports whether the appointment occupies its slot. Rejected
// appointments never do.
func (a *Appointment) BlocksSlot() bool {
	return a.Status != AppointmentStatusRejected
}

// ResetForReschedule moves the appointment to a new slot and back to pending.
func (a *Appointment) ResetForReschedule(date string, appointmentTime string) {
	a.AppointmentDate = date
	if appointmentTime != "" {
		a.AppointmentTime = appointmentTime
	}
	a.Status = AppointmentStatusPending
}
