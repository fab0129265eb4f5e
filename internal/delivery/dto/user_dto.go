package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	DoctorDepartment string    `json:"doctorDepartment,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
