package feedback

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) (*Feedback, error)
	GetByID(ctx context.Context, id int) (*Feedback, error)
	List(ctx context.Context, filter access.Filter) ([]Feedback, error)
	Update(ctx context.Context, f *Feedback) (*Feedback, error)
	Delete(ctx context.Context, id int) error
}
