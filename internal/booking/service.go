package booking

import (
	"context"
	"errors"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/email"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/metrics"
	"github.com/alaminmiah4274/iron-temple/internal/user"
)

var (
	ErrBookingNotFound  = apperr.New(apperr.NotFound, "booking not found")
	ErrClassNotFound    = apperr.New(apperr.Validation, "fitness class does not exist")
	ErrPastClass        = apperr.New(apperr.Validation, "cannot book a class that has already taken place")
	ErrCapacityExceeded = apperr.New(apperr.Validation, "this class is fully booked")
	ErrDuplicateBooking = apperr.New(apperr.Validation, "you have already booked this class")
	ErrInvalidStatus    = apperr.New(apperr.Validation, "status must be one of BOOKED, CANCELLED, ATTENDED")
	ErrInvalidDate      = apperr.New(apperr.Validation, "booking_date must be a date in the form YYYY-MM-DD")
)

// Users is the slice of the user store the workflow needs for notifications.
type Users interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, actor access.Actor, id int) (*Booking, error)
	List(ctx context.Context, actor access.Actor) ([]Booking, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id int, status Status) (*Booking, error)
	Delete(ctx context.Context, actor access.Actor, id int) error
}

type service struct {
	repo     Repository
	users    Users
	notifier email.Notifier
	events   events.Emitter
	now      clock.Clock
}

func NewService(repo Repository, users Users, notifier email.Notifier, emitter events.Emitter, now clock.Clock) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		events:   emitter,
		now:      now,
	}
}

// validateBooking applies the booking rules in order: past class, capacity, duplicate.
func validateBooking(g Guard, date time.Time) error {
	if g.Schedule.Before(date) {
		return ErrPastClass
	}
	if g.Booked >= g.Capacity {
		return ErrCapacityExceeded
	}
	if g.AlreadyBooked {
		return ErrDuplicateBooking
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "booked"
	case errors.Is(err, ErrPastClass):
		return "past_class"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, ErrDuplicateBooking):
		return "duplicate"
	default:
		return "error"
	}
}

func (s *service) Create(ctx context.Context, actor access.Actor, req CreateBookingRequest) (*Booking, error) {
	if !actor.Can(access.Create) {
		return nil, apperr.ErrForbidden
	}

	date := s.now.Today()
	if req.BookingDate != "" {
		d, err := clock.ParseDate(req.BookingDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = d
	}

	var guard Guard
	b, err := s.repo.Book(ctx, actor.UserID, req.FitnessClassID, date, func(g Guard) error {
		guard = g
		return validateBooking(g, date)
	})
	metrics.RecordBookingAttempt(outcome(err))
	if err != nil {
		return nil, err
	}

	logger.Info("class booked", "booking_id", b.ID, "user_id", b.UserID, "fitness_class_id", b.FitnessClassID)
	s.events.Emit(ctx, events.BookingCreated, b)

	if u, err := s.users.FindByID(ctx, actor.UserID); err == nil {
		if err := s.notifier.BookingConfirmed(ctx, u.Email, u.Name, guard.ClassName, b.BookingDate); err != nil {
			logger.WithError(err).Warn("booking confirmation not queued", "booking_id", b.ID)
		}
	}

	return b, nil
}

// Get hides bookings outside the actor's read scope behind a not-found.
func (s *service) Get(ctx context.Context, actor access.Actor, id int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Read, target(b)) {
		return nil, ErrBookingNotFound
	}

	return b, nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]Booking, error) {
	return s.repo.List(ctx, actor.Filter(access.Read))
}

func (s *service) UpdateStatus(ctx context.Context, actor access.Actor, id int, status Status) (*Booking, error) {
	b, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Update, target(b)) {
		return nil, apperr.ErrForbidden
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingStatus(string(status))
	s.events.Emit(ctx, events.BookingStatusChanged, map[string]interface{}{
		"booking_id": id,
		"from":       b.Status,
		"to":         status,
	})

	if status == StatusCancelled && b.Status != StatusCancelled {
		if u, err := s.users.FindByID(ctx, b.UserID); err == nil {
			if err := s.notifier.BookingCancelled(ctx, u.Email, u.Name, b.ClassName, b.BookingDate); err != nil {
				logger.WithError(err).Warn("cancellation email not queued", "booking_id", id)
			}
		}
	}

	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id int) error {
	if actor.Scope(access.Delete) != access.All {
		return apperr.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Emit(ctx, events.BookingDeleted, map[string]int{"booking_id": id})
	return nil
}

func target(b *Booking) access.Target {
	return access.Target{OwnerID: b.UserID, InstructorID: b.InstructorID}
}
