package subscription

import (
	"context"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
)

type Repository interface {
	// Subscribe locks the membership, hands its state to draft and inserts the result.
	Subscribe(ctx context.Context, userID, membershipID int, draft func(Guard) (Subscription, error)) (*Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
	List(ctx context.Context, f access.Filter) ([]Subscription, error)
	// Transition moves id from one status to another, failing if it is no longer in from.
	Transition(ctx context.Context, id int, from, to Status) (*Subscription, error)
	Delete(ctx context.Context, id int) error
	ExpireDue(ctx context.Context, today time.Time) (int64, error)
	HasAny(ctx context.Context, userID, membershipID int) (bool, error)
}
