package booking

import (
	"context"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
)

type Repository interface {
	// Book inserts a BOOKED row after check approves the locked class state.
	Book(ctx context.Context, userID, classID int, date time.Time, check func(Guard) error) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	List(ctx context.Context, f access.Filter) ([]Booking, error)
	UpdateStatus(ctx context.Context, id int, status Status) (*Booking, error)
	Delete(ctx context.Context, id int) error
}
