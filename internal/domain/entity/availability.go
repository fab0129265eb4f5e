package entity

import (
	"time"

	"clinic-booking/internal/domain/schedule"

	"github.com/google/uuid"
)

// DefaultSlotDuration is used when a doctor does not pick a slot width.
const DefaultSlotDuration = 30

// Availability is one block of bookable time for a doctor. Exactly one of
// Date (one-off override) or DayOfWeek (weekly rule) is set.
type Availability struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date      *string   `gorm:"type:varchar(10)" json:"date"`
	DayOfWeek *string   `gorm:"type:varchar(9)" json:"day_of_week"`

	// HH:MM, same day
	StartTime    string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime      string    `gorm:"type:varchar(5);not null" json:"end_time"`
	SlotDuration int       `gorm:"not null" json:"slot_duration"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// Window converts the stored times into a slot window.
func (a *Availability) Window() (schedule.Window, error) {
	return schedule.NewWindow(a.StartTime, a.EndTime, a.SlotDuration)
}
