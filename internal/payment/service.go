package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/config"
	"github.com/alaminmiah4274/iron-temple/internal/email"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/gateway"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/membership"
	"github.com/alaminmiah4274/iron-temple/internal/metrics"
	"github.com/alaminmiah4274/iron-temple/internal/subscription"
	"github.com/alaminmiah4274/iron-temple/internal/user"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound  = apperr.New(apperr.NotFound, "payment not found")
	ErrInvalidStatus    = apperr.New(apperr.Validation, "status must be one of PENDING, COMPLETED, FAILED")
	ErrInvalidAmount    = apperr.New(apperr.Validation, "amount must be greater than zero")
	ErrAmountMismatch   = apperr.New(apperr.Validation, "amount does not match the pending payment")
	ErrNotPayable       = apperr.New(apperr.State, "only an active subscription can be paid")
	ErrNoPendingPayment = apperr.New(apperr.State, "subscription has no pending payment")
)

// errAlreadyPaid rolls back a replayed success callback.
var errAlreadyPaid = errors.New("subscription already paid")

type Subscriptions interface {
	GetByID(ctx context.Context, id int) (*subscription.Subscription, error)
	HasAny(ctx context.Context, userID, membershipID int) (bool, error)
}

type Memberships interface {
	GetByID(ctx context.Context, id int) (*membership.Membership, error)
}

type Users interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

// Settings are the URLs and store password the checkout round trip needs.
type Settings struct {
	StorePassword string
	PublicBaseURL string
	RedirectURL   string
}

func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		StorePassword: cfg.GatewayStorePassword,
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		RedirectURL:   cfg.PaymentRedirectURL,
	}
}

type Service interface {
	Initiate(ctx context.Context, actor access.Actor, req InitiateRequest) (string, error)
	HandleSuccess(ctx context.Context, cb gateway.Callback) error
	RedirectURL() string
	CreateRecord(ctx context.Context, actor access.Actor, req CreatePaymentRequest) (*Payment, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*Payment, error)
	List(ctx context.Context, actor access.Actor) ([]Payment, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id uuid.UUID, status Status) (*Payment, error)
	Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error
	HasSubscribed(ctx context.Context, actor access.Actor, membershipID int) (bool, error)
}

type service struct {
	repo        Repository
	subs        Subscriptions
	memberships Memberships
	users       Users
	gateway     gateway.Client
	notifier    email.Notifier
	events      events.Emitter
	settings    Settings
}

func NewService(
	repo Repository,
	subs Subscriptions,
	memberships Memberships,
	users Users,
	gw gateway.Client,
	notifier email.Notifier,
	emitter events.Emitter,
	settings Settings,
) Service {
	return &service{
		repo:        repo,
		subs:        subs,
		memberships: memberships,
		users:       users,
		gateway:     gw,
		notifier:    notifier,
		events:      emitter,
		settings:    settings,
	}
}

func (s *service) RedirectURL() string {
	return s.settings.RedirectURL
}

func (s *service) callbackURL(outcome string) string {
	return s.settings.PublicBaseURL + "/payment/" + outcome
}

// Initiate records a pending payment and opens a checkout session for it.
// The returned URL is where the member completes the payment.
func (s *service) Initiate(ctx context.Context, actor access.Actor, req InitiateRequest) (string, error) {
	if !actor.Can(access.Create) {
		return "", apperr.ErrForbidden
	}

	sub, err := s.subs.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return "", err
	}
	if sub.UserID != actor.UserID {
		return "", subscription.ErrSubscriptionNotFound
	}
	if sub.Status != subscription.StatusActive {
		return "", ErrNotPayable
	}

	plan, err := s.memberships.GetByID(ctx, sub.MembershipID)
	if err != nil {
		return "", err
	}

	amount := req.AmountCents
	if amount == 0 {
		amount = plan.PriceCents
	}
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	customer, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return "", err
	}

	p, err := s.repo.Create(ctx, &Payment{
		ID:             uuid.New(),
		UserID:         actor.UserID,
		SubscriptionID: sub.ID,
		AmountCents:    amount,
		Status:         StatusPending,
	})
	if err != nil {
		return "", err
	}

	pageURL, err := s.gateway.CreateSession(ctx, gateway.SessionRequest{
		TranID:          gateway.TranID(sub.ID),
		AmountCents:     amount,
		SuccessURL:      s.callbackURL("success"),
		FailURL:         s.callbackURL("fail"),
		CancelURL:       s.callbackURL("cancel"),
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerAddress: customer.Address,
		CustomerPhone:   customer.Phone,
		ProductName:     plan.Name,
	})
	if err != nil {
		if _, uerr := s.repo.UpdateStatus(ctx, p.ID, StatusFailed); uerr != nil {
			logger.WithError(uerr).Error("failed to mark payment failed", "payment_id", p.ID)
		}
		metrics.RecordPayment("failed")
		return "", err
	}

	metrics.RecordPayment("initiated")
	logger.Info("payment initiated", "payment_id", p.ID, "subscription_id", sub.ID, "amount_cents", amount)
	s.events.Emit(ctx, events.PaymentInitiated, p)

	return pageURL, nil
}

// HandleSuccess settles a subscription from a signed gateway callback. Only the
// matching pending payment completes; other pending attempts are failed. A
// replay for an already paid subscription succeeds without changing anything.
func (s *service) HandleSuccess(ctx context.Context, cb gateway.Callback) error {
	if err := cb.Verify(s.settings.StorePassword); err != nil {
		logger.Warn("rejected payment callback", "tran_id", cb.TranID)
		return err
	}

	subID, err := gateway.SubscriptionID(cb.TranID)
	if err != nil {
		return err
	}

	amount, err := gateway.ParseAmount(cb.Amount)
	if err != nil {
		return err
	}

	settled, err := s.repo.Settle(ctx, subID, func(st Settlement) (uuid.UUID, error) {
		return checkSettlement(st, amount)
	})
	if errors.Is(err, errAlreadyPaid) {
		logger.Info("duplicate payment callback", "subscription_id", subID)
		return nil
	}
	if err != nil {
		return err
	}

	metrics.RecordPayment("completed")
	metrics.RecordSubscriptionTransition(string(subscription.StatusPaid), 1)
	logger.Info("payment completed", "subscription_id", subID, "payment_id", settled.Paid, "amount_cents", amount, "superseded", settled.Superseded)
	s.events.Emit(ctx, events.PaymentCompleted, map[string]interface{}{
		"subscription_id": subID,
		"payment_id":      settled.Paid,
		"amount_cents":    amount,
	})

	if u, err := s.users.FindByID(ctx, settled.Subscription.UserID); err == nil {
		if err := s.notifier.PaymentReceived(ctx, u.Email, u.Name, amount, subID); err != nil {
			logger.WithError(err).Warn("payment email not queued", "subscription_id", subID)
		}
	}

	return nil
}

// checkSettlement picks the pending payment the callback pays for. Pending is
// newest first, so a retried checkout settles its latest attempt.
func checkSettlement(st Settlement, amount int64) (uuid.UUID, error) {
	switch st.Subscription.Status {
	case subscription.StatusPaid:
		return uuid.Nil, errAlreadyPaid
	case subscription.StatusActive:
	default:
		return uuid.Nil, ErrNotPayable
	}

	if len(st.Pending) == 0 {
		return uuid.Nil, ErrNoPendingPayment
	}
	for _, p := range st.Pending {
		if p.AmountCents == amount {
			return p.ID, nil
		}
	}
	return uuid.Nil, ErrAmountMismatch
}

// CreateRecord is the privileged path for recording a payment by hand.
func (s *service) CreateRecord(ctx context.Context, actor access.Actor, req CreatePaymentRequest) (*Payment, error) {
	if actor.Scope(access.Create) != access.All {
		return nil, apperr.ErrForbidden
	}

	sub, err := s.subs.GetByID(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}

	if req.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	userID := req.UserID
	if userID == 0 {
		userID = sub.UserID
	}

	p, err := s.repo.Create(ctx, &Payment{
		ID:             uuid.New(),
		UserID:         userID,
		SubscriptionID: sub.ID,
		AmountCents:    req.AmountCents,
		Status:         StatusPending,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPayment("recorded")
	s.events.Emit(ctx, events.PaymentRecorded, p)
	return p, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Read, access.Target{OwnerID: p.UserID}) {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]Payment, error) {
	return s.repo.List(ctx, actor.Filter(access.Read))
}

func (s *service) UpdateStatus(ctx context.Context, actor access.Actor, id uuid.UUID, status Status) (*Payment, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Update, access.Target{OwnerID: p.UserID}) {
		return nil, apperr.ErrForbidden
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) Delete(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if actor.Scope(access.Delete) != access.All {
		return apperr.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// HasSubscribed counts any subscription of the caller to the membership,
// whatever its status.
func (s *service) HasSubscribed(ctx context.Context, actor access.Actor, membershipID int) (bool, error) {
	if actor.UserID == 0 {
		return false, apperr.ErrForbidden
	}
	return s.subs.HasAny(ctx, actor.UserID, membershipID)
}
