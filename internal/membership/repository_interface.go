package membership

import "context"

type Repository interface {
	Create(ctx context.Context, m *Membership) (*Membership, error)
	GetByID(ctx context.Context, id int) (*Membership, error)
	List(ctx context.Context) ([]Membership, error)
	Update(ctx context.Context, m *Membership) (*Membership, error)
	Delete(ctx context.Context, id int) error
}
