package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/metrics"

	"github.com/google/uuid"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingDeleted       = "booking.deleted"

	SubscriptionCreated       = "subscription.created"
	SubscriptionStatusChanged = "subscription.status_changed"
	SubscriptionDeleted       = "subscription.deleted"
	SubscriptionsExpired      = "subscription.expired"

	PaymentInitiated = "payment.initiated"
	PaymentCompleted = "payment.completed"
	PaymentRecorded  = "payment.recorded"

	FeedbackSubmitted = "feedback.submitted"
	AttendanceMarked  = "attendance.marked"
)

// Envelope is the wire form of every domain event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Emitter is what workflows depend on. Emit never fails the caller: the
// database commit has already happened when an event is emitted.
type Emitter interface {
	Emit(ctx context.Context, eventType string, data any)
}

type Bus struct {
	publisher Publisher
	now       func() time.Time
}

func NewBus(publisher Publisher) *Bus {
	return &Bus{publisher: publisher, now: time.Now}
}

func (b *Bus) Emit(ctx context.Context, eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("failed to encode event", "type", eventType)
		return
	}

	payload, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: b.now().UTC(),
		Data:       raw,
	})
	if err != nil {
		logger.WithError(err).Error("failed to encode event envelope", "type", eventType)
		return
	}

	if err := b.publisher.Publish(ctx, eventType, payload); err != nil {
		logger.WithError(err).Warn("failed to publish event", "type", eventType)
		metrics.RecordEvent(eventType, "failed")
		return
	}
	metrics.RecordEvent(eventType, "ok")
}

// Discard drops every event. Handy in tests that do not care about events.
type Discard struct{}

func (Discard) Emit(context.Context, string, any) {}
