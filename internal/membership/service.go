package membership

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/apperr"
)

var ErrMembershipNotFound = apperr.New(apperr.NotFound, "membership not found")

type Service interface {
	Create(ctx context.Context, req CreateMembershipRequest) (*Membership, error)
	Get(ctx context.Context, id int) (*Membership, error)
	List(ctx context.Context) ([]Membership, error)
	Update(ctx context.Context, id int, req UpdateMembershipRequest) (*Membership, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateMembershipRequest) (*Membership, error) {
	return s.repo.Create(ctx, &Membership{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Duration:   Duration(req.Duration),
	})
}

func (s *service) Get(ctx context.Context, id int) (*Membership, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Membership, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int, req UpdateMembershipRequest) (*Membership, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.PriceCents != nil {
		m.PriceCents = *req.PriceCents
	}
	if req.Duration != nil {
		m.Duration = Duration(*req.Duration)
	}

	return s.repo.Update(ctx, m)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
