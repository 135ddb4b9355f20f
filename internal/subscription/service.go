package subscription

import (
	"context"

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
	ErrSubscriptionNotFound  = apperr.New(apperr.NotFound, "subscription not found")
	ErrMembershipNotFound    = apperr.New(apperr.Validation, "membership does not exist")
	ErrDuplicateSubscription = apperr.New(apperr.Validation, "you already have an active subscription to this membership")
	ErrInvalidStatus         = apperr.New(apperr.Validation, "status must be one of ACTIVE, EXPIRED, CANCELLED, PAID")
	ErrTerminalSubscription  = apperr.New(apperr.State, "subscription is no longer active")
	ErrInvalidTransition     = apperr.New(apperr.State, "an active subscription can only become EXPIRED, CANCELLED or PAID")
	ErrCancelOnly            = apperr.New(apperr.Authorization, "you can only cancel your subscription")
)

type Users interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Service interface {
	Subscribe(ctx context.Context, actor access.Actor, req CreateSubscriptionRequest) (*Subscription, error)
	Get(ctx context.Context, actor access.Actor, id int) (*Subscription, error)
	List(ctx context.Context, actor access.Actor) ([]Subscription, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id int, status Status) (*Subscription, error)
	Delete(ctx context.Context, actor access.Actor, id int) error
	ExpireDue(ctx context.Context) (int64, error)
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

func (s *service) Subscribe(ctx context.Context, actor access.Actor, req CreateSubscriptionRequest) (*Subscription, error) {
	if !actor.Can(access.Create) {
		return nil, apperr.ErrForbidden
	}

	today := s.now.Today()
	var guard Guard
	sub, err := s.repo.Subscribe(ctx, actor.UserID, req.MembershipID, func(g Guard) (Subscription, error) {
		guard = g
		if g.HasActive {
			return Subscription{}, ErrDuplicateSubscription
		}
		return Subscription{
			StartDate: today,
			EndDate:   g.Membership.Duration.EndDate(today),
			Status:    StatusActive,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscription(string(guard.Membership.Duration))
	logger.Info("subscription created", "subscription_id", sub.ID, "user_id", sub.UserID, "membership_id", sub.MembershipID)
	s.events.Emit(ctx, events.SubscriptionCreated, sub)

	if u, err := s.users.FindByID(ctx, actor.UserID); err == nil {
		if err := s.notifier.SubscriptionStarted(ctx, u.Email, u.Name, guard.Membership.Name, sub.StartDate, sub.EndDate); err != nil {
			logger.WithError(err).Warn("subscription email not queued", "subscription_id", sub.ID)
		}
	}

	return sub, nil
}

func target(sub *Subscription) access.Target {
	return access.Target{OwnerID: sub.UserID, Closed: sub.Status.Closed()}
}

// Get returns not-found for subscriptions outside the actor's read scope.
func (s *service) Get(ctx context.Context, actor access.Actor, id int) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Read, target(sub)) {
		return nil, ErrSubscriptionNotFound
	}

	return sub, nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]Subscription, error) {
	return s.repo.List(ctx, actor.Filter(access.Read))
}

// UpdateStatus only moves ACTIVE subscriptions forward. Members may only cancel.
func (s *service) UpdateStatus(ctx context.Context, actor access.Actor, id int, status Status) (*Subscription, error) {
	sub, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Update, target(sub)) {
		return nil, apperr.ErrForbidden
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if actor.Scope(access.Update) == access.Own && status != StatusCancelled {
		return nil, ErrCancelOnly
	}

	if sub.Status != StatusActive {
		return nil, ErrTerminalSubscription
	}

	if status == StatusActive {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.Transition(ctx, id, StatusActive, status)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionTransition(string(status), 1)
	s.events.Emit(ctx, events.SubscriptionStatusChanged, map[string]interface{}{
		"subscription_id": id,
		"from":            sub.Status,
		"to":              status,
	})

	return updated, nil
}

// Delete lets admins remove anything; staff only closed subscriptions.
func (s *service) Delete(ctx context.Context, actor access.Actor, id int) error {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.Permits(access.Delete, target(sub)) {
		return apperr.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Emit(ctx, events.SubscriptionDeleted, map[string]int{"subscription_id": id})
	return nil
}

// ExpireDue closes every ACTIVE subscription whose end date has passed.
func (s *service) ExpireDue(ctx context.Context) (int64, error) {
	today := s.now.Today()
	n, err := s.repo.ExpireDue(ctx, today)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		metrics.RecordSubscriptionTransition(string(StatusExpired), int(n))
		s.events.Emit(ctx, events.SubscriptionsExpired, map[string]interface{}{
			"count": n,
			"date":  today.Format(clock.DateLayout),
		})
	}
	logger.Info("expired subscriptions", "count", n, "date", today.Format(clock.DateLayout))

	return n, nil
}
