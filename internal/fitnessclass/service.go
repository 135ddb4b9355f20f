package fitnessclass

import (
	"context"
	"errors"

	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/user"
)

var (
	ErrClassNotFound     = apperr.New(apperr.NotFound, "fitness class not found")
	ErrInstructorMissing = apperr.New(apperr.Validation, "instructor does not exist")
	ErrInvalidSchedule   = apperr.New(apperr.Validation, "schedule must be a date in the form YYYY-MM-DD")
)

type Service interface {
	Create(ctx context.Context, req CreateClassRequest) (*FitnessClass, error)
	Get(ctx context.Context, id int) (*FitnessClass, error)
	List(ctx context.Context) ([]ClassWithAvailability, error)
	Update(ctx context.Context, id int, req UpdateClassRequest) (*FitnessClass, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo     Repository
	userRepo user.Repository
}

func NewService(repo Repository, userRepo user.Repository) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *service) checkInstructor(ctx context.Context, id int) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrInstructorMissing
		}
		return err
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateClassRequest) (*FitnessClass, error) {
	schedule, err := clock.ParseDate(req.Schedule)
	if err != nil {
		return nil, ErrInvalidSchedule
	}

	if err := s.checkInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, &FitnessClass{
		Name:         req.Name,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		Schedule:     schedule,
		Duration:     req.Duration,
		Capacity:     req.Capacity,
	})
}

func (s *service) Get(ctx context.Context, id int) (*FitnessClass, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]ClassWithAvailability, error) {
	return s.repo.ListWithAvailability(ctx)
}

func (s *service) Update(ctx context.Context, id int, req UpdateClassRequest) (*FitnessClass, error) {
	fc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		fc.Name = *req.Name
	}
	if req.Description != nil {
		fc.Description = *req.Description
	}
	if req.Schedule != nil {
		schedule, err := clock.ParseDate(*req.Schedule)
		if err != nil {
			return nil, ErrInvalidSchedule
		}
		fc.Schedule = schedule
	}
	if req.Duration != nil {
		fc.Duration = *req.Duration
	}
	if req.Capacity != nil {
		fc.Capacity = *req.Capacity
	}
	if req.InstructorID != nil && *req.InstructorID != fc.InstructorID {
		if err := s.checkInstructor(ctx, *req.InstructorID); err != nil {
			return nil, err
		}
		fc.InstructorID = *req.InstructorID
	}

	return s.repo.Update(ctx, fc)
}

// Delete removes the class; bookings, attendance and feedback cascade.
func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
