package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleRequest struct {
	Date      string `json:"date" validate:"omitempty,ymd"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	Slot      int    `json:"slotDuration" validate:"omitempty,gte=1,lte=480"`
}

func TestCustomTags(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(ruleRequest{Date: "2026-10-19", StartTime: "09:00"}))
	assert.NoError(t, v.Validate(ruleRequest{StartTime: "23:59", Slot: 480}))

	err := v.Validate(ruleRequest{Date: "2026-13-01", StartTime: "9am", Slot: 500})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", msgs["date"])
	assert.Equal(t, "startTime must be a time in HH:MM format", msgs["startTime"])
	assert.Equal(t, "slotDuration must be less than or equal to 480", msgs["slotDuration"])
}

func TestRequiredUsesJSONName(t *testing.T) {
	v := NewValidator()

	msgs := v.FormatValidationErrors(v.Validate(ruleRequest{}))
	assert.Equal(t, map[string]string{"startTime": "startTime is required"}, msgs)
}
