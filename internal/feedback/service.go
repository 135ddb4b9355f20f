package feedback

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
)

var (
	ErrFeedbackNotFound  = apperr.New(apperr.NotFound, "feedback not found")
	ErrClassNotFound     = apperr.New(apperr.Validation, "fitness class does not exist")
	ErrDuplicateFeedback = apperr.New(apperr.Validation, "you have already reviewed this class")
	ErrInvalidRating     = apperr.New(apperr.Validation, "ratings must be between 1 and 5")
)

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateFeedbackRequest) (*Feedback, error)
	Get(ctx context.Context, actor access.Actor, id int) (*Feedback, error)
	List(ctx context.Context, actor access.Actor) ([]Feedback, error)
	UpdateReview(ctx context.Context, actor access.Actor, id int, req UpdateReviewRequest) (*Feedback, error)
	Delete(ctx context.Context, actor access.Actor, id int) error
}

type service struct {
	repo   Repository
	events events.Emitter
}

func NewService(repo Repository, emitter events.Emitter) Service {
	return &service{
		repo:   repo,
		events: emitter,
	}
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

func target(f *Feedback) access.Target {
	return access.Target{OwnerID: f.UserID, InstructorID: f.InstructorID}
}

// Create records one review per member and class.
func (s *service) Create(ctx context.Context, actor access.Actor, req CreateFeedbackRequest) (*Feedback, error) {
	if !actor.Can(access.Create) {
		return nil, apperr.ErrForbidden
	}

	if !validRating(req.Ratings) {
		return nil, ErrInvalidRating
	}

	f, err := s.repo.Create(ctx, &Feedback{
		UserID:         actor.UserID,
		FitnessClassID: req.FitnessClassID,
		Ratings:        req.Ratings,
		Comment:        req.Comment,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("feedback submitted", "feedback_id", f.ID, "class_id", f.FitnessClassID, "ratings", f.Ratings)
	s.events.Emit(ctx, events.FeedbackSubmitted, f)
	return f, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id int) (*Feedback, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Read, target(f)) {
		return nil, ErrFeedbackNotFound
	}
	return f, nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]Feedback, error) {
	return s.repo.List(ctx, actor.Filter(access.Read))
}

func (s *service) UpdateReview(ctx context.Context, actor access.Actor, id int, req UpdateReviewRequest) (*Feedback, error) {
	f, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Update, target(f)) {
		return nil, apperr.ErrForbidden
	}

	if req.Ratings != nil {
		if !validRating(*req.Ratings) {
			return nil, ErrInvalidRating
		}
		f.Ratings = *req.Ratings
	}
	if req.Comment != nil {
		f.Comment = *req.Comment
	}

	return s.repo.Update(ctx, f)
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id int) error {
	f, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if !actor.Permits(access.Delete, target(f)) {
		return apperr.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
