package fitnessclass

import "context"

type Repository interface {
	Create(ctx context.Context, fc *FitnessClass) (*FitnessClass, error)
	GetByID(ctx context.Context, id int) (*FitnessClass, error)
	ListWithAvailability(ctx context.Context) ([]ClassWithAvailability, error)
	Update(ctx context.Context, fc *FitnessClass) (*FitnessClass, error)
	Delete(ctx context.Context, id int) error
}
