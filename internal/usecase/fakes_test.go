package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore backs the in-memory repositories. Writes enforce the same unique
// rules as the database indexes.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]entity.User
	rules        map[uuid.UUID]entity.Availability
	appointments map[uuid.UUID]entity.Appointment
	audits       []entity.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uuid.UUID]entity.User{},
		rules:        map[uuid.UUID]entity.Availability{},
		appointments: map[uuid.UUID]entity.Appointment{},
	}
}

func (s *memStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.audits))
	for i, a := range s.audits {
		actions[i] = a.Action
	}
	return actions
}

type fakeTransactor struct{}

func (fakeTransactor) Conn(ctx context.Context) *gorm.DB { return nil }

func (fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// ---- users ----

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUserRepo) FindDoctorByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, err := r.FindByID(db, id)
	if err != nil || u == nil || !u.IsDoctor() {
		return nil, err
	}
	return u, nil
}

func (r memUserRepo) FindDoctorsByNameAndDepartment(db *gorm.DB, firstName, lastName, department string) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.User
	for _, u := range r.s.users {
		if u.IsDoctor() && u.FirstName == firstName && u.LastName == lastName && u.Department == department {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- availability ----

type memAvailabilityRepo struct{ s *memStore }

func sameKey(a, b *entity.Availability) bool {
	if a.DoctorID != b.DoctorID {
		return false
	}
	if a.Date != nil && b.Date != nil {
		return *a.Date == *b.Date
	}
	if a.DayOfWeek != nil && b.DayOfWeek != nil {
		return *a.DayOfWeek == *b.DayOfWeek
	}
	return false
}

func (r memAvailabilityRepo) Create(db *gorm.DB, a *entity.Availability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.rules {
		if sameKey(&existing, a) {
			return repository.ErrAvailabilityExists
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.rules[a.ID] = *a
	return nil
}

func (r memAvailabilityRepo) Update(db *gorm.DB, a *entity.Availability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.UpdatedAt = time.Now()
	r.s.rules[a.ID] = *a
	return nil
}

func (r memAvailabilityRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rules[id]; !ok {
		return 0, nil
	}
	delete(r.s.rules, id)
	return 1, nil
}

func (r memAvailabilityRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.rules[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAvailabilityRepo) find(match func(a *entity.Availability) bool) *entity.Availability {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.rules {
		a := a
		if match(&a) {
			return &a
		}
	}
	return nil
}

func (r memAvailabilityRepo) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) (*entity.Availability, error) {
	return r.find(func(a *entity.Availability) bool {
		return a.DoctorID == doctorID && a.Date != nil && *a.Date == date
	}), nil
}

func (r memAvailabilityRepo) FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day string) (*entity.Availability, error) {
	return r.find(func(a *entity.Availability) bool {
		return a.DoctorID == doctorID && a.DayOfWeek != nil && *a.DayOfWeek == day
	}), nil
}

func (r memAvailabilityRepo) FindActiveByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) (*entity.Availability, error) {
	return r.find(func(a *entity.Availability) bool {
		return a.IsActive && a.DoctorID == doctorID && a.Date != nil && *a.Date == date
	}), nil
}

func (r memAvailabilityRepo) FindActiveByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, day string) (*entity.Availability, error) {
	return r.find(func(a *entity.Availability) bool {
		return a.IsActive && a.DoctorID == doctorID && a.DayOfWeek != nil && *a.DayOfWeek == day
	}), nil
}

func (r memAvailabilityRepo) FindActiveByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Availability{}
	for _, a := range r.s.rules {
		if a.IsActive && a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// ---- appointments ----

type memAppointmentRepo struct{ s *memStore }

// clashes must be called with the store lock held.
func (r memAppointmentRepo) clashes(a *entity.Appointment) bool {
	if !a.BlocksSlot() {
		return false
	}
	for id, other := range r.s.appointments {
		if id != a.ID && other.BlocksSlot() && other.DoctorID == a.DoctorID &&
			other.AppointmentDate == a.AppointmentDate && other.AppointmentTime == a.AppointmentTime {
			return true
		}
	}
	return false
}

func (r memAppointmentRepo) Create(db *gorm.DB, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.clashes(a) {
		return repository.ErrSlotTaken
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.s.appointments[a.ID] = *a
	return nil
}

func (r memAppointmentRepo) Save(db *gorm.DB, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.clashes(a) {
		return repository.ErrSlotTaken
	}
	a.UpdatedAt = time.Now()
	r.s.appointments[a.ID] = *a
	return nil
}

func (r memAppointmentRepo) Updates(db *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil
	}
	for column, v := range fields {
		switch column {
		case "status":
			a.Status = v.(entity.AppointmentStatus)
		case "payment_status":
			a.PaymentStatus = v.(entity.PaymentStatus)
		case "has_visited":
			a.HasVisited = v.(bool)
		case "appointment_notes":
			a.Notes = v.(string)
		case "prescription":
			a.Prescription = v.(string)
		case "appointment_date":
			a.AppointmentDate = v.(string)
		case "appointment_time":
			a.AppointmentTime = v.(string)
		}
	}
	if r.clashes(&a) {
		return repository.ErrSlotTaken
	}
	r.s.appointments[id] = a
	return nil
}

func (r memAppointmentRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return 0, nil
	}
	delete(r.s.appointments, id)
	return 1, nil
}

func (r memAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAppointmentRepo) filter(match func(a *entity.Appointment) bool) []entity.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []entity.Appointment{}
	for _, a := range r.s.appointments {
		a := a
		if match(&a) {
			out = append(out, a)
		}
	}
	return out
}

func (r memAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r memAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r memAppointmentRepo) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	return r.filter(func(a *entity.Appointment) bool { return true }), nil
}

func (r memAppointmentRepo) FindConflict(db *gorm.DB, q repository.ConflictQuery) (*entity.Appointment, error) {
	found := r.filter(func(a *entity.Appointment) bool {
		if q.ExcludeID != nil && a.ID == *q.ExcludeID {
			return false
		}
		if q.Time != "" && a.AppointmentTime != q.Time {
			return false
		}
		return a.BlocksSlot() && a.DoctorID == q.DoctorID && a.AppointmentDate == q.Date
	})
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r memAppointmentRepo) FindBookedTimes(db *gorm.DB, doctorID uuid.UUID, date string) ([]string, error) {
	var times []string
	for _, a := range r.filter(func(a *entity.Appointment) bool {
		return a.BlocksSlot() && a.DoctorID == doctorID && a.AppointmentDate == date
	}) {
		times = append(times, a.AppointmentTime)
	}
	return times, nil
}

// ---- audit ----

type memAuditRepo struct{ s *memStore }

func (r memAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = int64(len(r.s.audits) + 1)
	r.s.audits = append(r.s.audits, *log)
	return nil
}

func (r memAuditRepo) FindAll(db *gorm.DB, limit int) ([]entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]entity.AuditLog(nil), r.s.audits...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memAuditRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.audits {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

// ---- events ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.AppointmentEvent
}

func (p *recordingPublisher) PublishAppointmentEvent(ctx context.Context, event service.AppointmentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
