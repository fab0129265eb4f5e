package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTime   = errors.New("invalid time format, use HH:MM")
	ErrInvalidWindow = errors.New("start time must be before end time")
	ErrInvalidSlot   = errors.New("slot duration must be a positive number of minutes")
)

const minutesPerDay = 24 * 60

// Clock is a wall-clock time as minutes since midnight, 00:00 through 23:59.
type Clock int

// ParseClock accepts strict 24-hour HH:MM.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTime
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, ErrInvalidTime
	}
	return Clock(h*60 + m), nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Window is one bookable block of a day, quantized into fixed-width slots.
type Window struct {
	Start       Clock
	End         Clock
	SlotMinutes int
}

// NewWindow validates and builds a window from its wire representation.
// Windows crossing midnight are rejected: End must be after Start on the same day.
func NewWindow(startTime, endTime string, slotMinutes int) (Window, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Window{}, err
	}
	if start >= end {
		return Window{}, ErrInvalidWindow
	}
	if slotMinutes <= 0 || slotMinutes > minutesPerDay {
		return Window{}, ErrInvalidSlot
	}
	return Window{Start: start, End: end, SlotMinutes: slotMinutes}, nil
}

// Contains reports whether c starts inside the half-open window [Start, End).
func (w Window) Contains(c Clock) bool {
	return c >= w.Start && c < w.End
}

// OnGrid reports whether c is one of the slot starts the generator would emit.
func (w Window) OnGrid(c Clock) bool {
	if w.SlotMinutes <= 0 || !w.Contains(c) {
		return false
	}
	return int(c-w.Start)%w.SlotMinutes == 0
}
