package service

import (
	"context"
	"encoding/json"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 3 * time.Second

// AppointmentEvent is published after an appointment change commits. Type
// doubles as the routing key.
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewAppointmentEvent(eventType string, a *entity.Appointment, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		PatientID:     a.PatientID,
		Date:          a.AppointmentDate,
		Time:          a.AppointmentTime,
		Status:        string(a.Status),
		OccurredAt:    at.UTC(),
	}
}

// EventPublisher never fails the caller: delivery problems are logged only.
type EventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, event AppointmentEvent)
}

// MessagePublisher is the broker side, satisfied by *messaging.RabbitMQ.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

type brokerEventPublisher struct {
	broker MessagePublisher
	log    *logrus.Logger
}

func NewEventPublisher(broker MessagePublisher, log *logrus.Logger) EventPublisher {
	return &brokerEventPublisher{broker: broker, log: log}
}

func (p *brokerEventPublisher) PublishAppointmentEvent(ctx context.Context, event AppointmentEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Errorf("Failed to encode event %s: %+v", event.Type, err)
		return
	}

	// The request may already be finishing; the event still has to go out.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.broker.Publish(pubCtx, event.Type, body); err != nil {
		p.log.Errorf("Failed to publish event %s for appointment %s: %+v", event.Type, event.AppointmentID, err)
		return
	}
	p.log.Debugf("Published event %s for appointment %s", event.Type, event.AppointmentID)
}

type noopEventPublisher struct {
	log *logrus.Logger
}

// NewNoopEventPublisher is used when no broker is configured.
func NewNoopEventPublisher(log *logrus.Logger) EventPublisher {
	return &noopEventPublisher{log: log}
}

func (p *noopEventPublisher) PublishAppointmentEvent(ctx context.Context, event AppointmentEvent) {
	p.log.Debugf("Event %s for appointment %s not published: no broker configured", event.Type, event.AppointmentID)
}
