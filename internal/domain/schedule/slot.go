package schedule

// Slot is one fixed-width bookable unit of a window.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// TimeSet holds HH:MM strings already taken on a date.
type TimeSet map[string]struct{}

func NewTimeSet(times ...string) TimeSet {
	set := make(TimeSet, len(times))
	for _, t := range times {
		set[t] = struct{}{}
	}
	return set
}

func (s TimeSet) Has(t string) bool {
	_, ok := s[t]
	return ok
}

// GenerateSlots walks the window from Start in SlotMinutes steps and emits a
// slot for every step that starts strictly before End. A slot is not required
// to end before End. Booked times are matched by exact HH:MM string.
func GenerateSlots(w Window, booked TimeSet) []Slot {
	if w.SlotMinutes <= 0 || w.Start >= w.End {
		return []Slot{}
	}

	slots := make([]Slot, 0, (int(w.End-w.Start)+w.SlotMinutes-1)/w.SlotMinutes)
	for t := w.Start; t < w.End; t += Clock(w.SlotMinutes) {
		label := t.String()
		slots = append(slots, Slot{
			Time:      label,
			Available: !booked.Has(label),
		})
	}
	return slots
}
