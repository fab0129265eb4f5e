package usecase

import (
	"fmt"
	"sort"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/schedule"
	"clinic-booking/pkg/apperror"
)

type patchField struct {
	column string
	parse  func(v interface{}) (interface{}, error)
}

// adminPatchFields maps the JSON keys an admin may patch onto their columns.
var adminPatchFields = map[string]patchField{
	"status": {column: "status", parse: func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok || !entity.AppointmentStatus(s).IsValid() {
			return nil, ErrInvalidAppointmentStatus
		}
		return entity.AppointmentStatus(s), nil
	}},
	"paymentStatus": {column: "payment_status", parse: func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok || !entity.PaymentStatus(s).IsValid() {
			return nil, ErrInvalidPaymentStatus
		}
		return entity.PaymentStatus(s), nil
	}},
	"hasVisited": {column: "has_visited", parse: func(v interface{}) (interface{}, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, apperror.Validation("hasVisited must be a boolean")
		}
		return b, nil
	}},
	"appointmentNotes": {column: "appointment_notes", parse: stringValue("appointmentNotes")},
	"prescription":     {column: "prescription", parse: stringValue("prescription")},
	"appointment_date": {column: "appointment_date", parse: func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidDate
		}
		date, err := schedule.NormalizeDate(s)
		if err != nil {
			return nil, ErrInvalidDate
		}
		return date, nil
	}},
	"appointment_time": {column: "appointment_time", parse: func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return nil, ErrInvalidTime
		}
		c, err := schedule.ParseClock(s)
		if err != nil {
			return nil, ErrInvalidTime
		}
		return c.String(), nil
	}},
}

func stringValue(key string) func(v interface{}) (interface{}, error) {
	return func(v interface{}) (interface{}, error) {
		s, ok := v.(string)
		if !ok {
			return nil, apperror.Validation(fmt.Sprintf("%s must be a string", key))
		}
		return s, nil
	}
}

// adminPatchColumns validates a patch and translates it into column updates.
// Keys are checked in sorted order so the reported error is stable.
func adminPatchColumns(patch dto.AdminUpdateAppointmentRequest) (map[string]interface{}, error) {
	if len(patch) == 0 {
		return nil, ErrEmptyPatch
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make(map[string]interface{}, len(patch))
	for _, k := range keys {
		field, ok := adminPatchFields[k]
		if !ok {
			return nil, apperror.Validation(fmt.Sprintf("Field %s cannot be updated", k))
		}
		value, err := field.parse(patch[k])
		if err != nil {
			return nil, err
		}
		columns[field.column] = value
	}
	return columns, nil
}
