package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

// DateLayout is the wire format of every date-only field.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

// Weekday is the English long name of a day, as stored on recurring rules.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var weekdays = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// ParseWeekday accepts only the exact long names ("Monday", not "monday" or "Mon").
func ParseWeekday(s string) (Weekday, bool) {
	wd := Weekday(s)
	_, ok := weekdays[wd]
	return wd, ok
}

// ParseDate reads a YYYY-MM-DD date. A full timestamp is accepted and cut at
// the 'T' separator, so clients sending ISO strings land on the same calendar day.
func ParseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	d, err := civil.ParseDate(s)
	if err != nil || !d.IsValid() {
		return civil.Date{}, ErrInvalidDate
	}
	return d, nil
}

// NormalizeDate parses and re-formats a date string.
func NormalizeDate(s string) (string, error) {
	d, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// WeekdayOf returns the weekday name of d. The conversion goes through UTC
// midnight so it never depends on the process locale or zone.
func WeekdayOf(d civil.Date) Weekday {
	return Weekday(d.In(time.UTC).Weekday().String())
}

// Today is the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}

// IsPast reports whether d lies strictly before today. Time of day is ignored.
func IsPast(d, today civil.Date) bool {
	return d.Before(today)
}
