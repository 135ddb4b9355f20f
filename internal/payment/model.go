package payment

import (
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/subscription"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type Payment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user"`
	SubscriptionID int       `db:"subscription_id" json:"subscription"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	PaymentDate    time.Time `db:"payment_date" json:"payment_date"`
	Status         Status    `db:"status" json:"status"`
}

// Settlement is the locked state a success callback is checked against, and
// after settling, the payment that was completed.
type Settlement struct {
	Subscription subscription.Subscription
	Pending      []Payment
	Paid         uuid.UUID
	Superseded   int64
}

type InitiateRequest struct {
	SubscriptionID int   `json:"subscription" binding:"required,gte=1"`
	AmountCents    int64 `json:"amount_cents" binding:"omitempty,gte=1"`
}

type CreatePaymentRequest struct {
	UserID         int   `json:"user" binding:"omitempty,gte=1"`
	SubscriptionID int   `json:"subscription" binding:"required,gte=1"`
	AmountCents    int64 `json:"amount_cents" binding:"required,gte=1"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required" example:"COMPLETED"`
}

type HasSubscribedResponse struct {
	HasSubscribed bool `json:"has_subscribed"`
}
