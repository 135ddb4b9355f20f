package payment

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) (*Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	List(ctx context.Context, filter access.Filter) ([]Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Settle locks the subscription and runs check, which names the pending
	// payment being paid. In the same transaction it marks the subscription
	// PAID, that payment COMPLETED and any other pending payment FAILED.
	Settle(ctx context.Context, subscriptionID int, check func(Settlement) (uuid.UUID, error)) (*Settlement, error)
}
