// Package report builds the read-only admin summaries.
package report

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/apperr"
)

type Service interface {
	Memberships(ctx context.Context, actor access.Actor) ([]MembershipReport, error)
	Attendance(ctx context.Context, actor access.Actor) ([]AttendanceReport, error)
	Feedback(ctx context.Context, actor access.Actor) ([]FeedbackReport, error)
	Payments(ctx context.Context, actor access.Actor) (*PaymentReport, error)
}

type service struct {
	repo     Repository
	payments Payments
}

func NewService(repo Repository, payments Payments) Service {
	return &service{
		repo:     repo,
		payments: payments,
	}
}

// AttendanceRate is present*100/total, or 0 for an empty bucket.
func AttendanceRate(present, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(present) * 100 / float64(total)
}

func allowed(actor access.Actor) error {
	if actor.Scope(access.Read) != access.All {
		return apperr.ErrForbidden
	}
	return nil
}

func (s *service) Memberships(ctx context.Context, actor access.Actor) ([]MembershipReport, error) {
	if err := allowed(actor); err != nil {
		return nil, err
	}
	return s.repo.Memberships(ctx)
}

func (s *service) Attendance(ctx context.Context, actor access.Actor) ([]AttendanceReport, error) {
	if err := allowed(actor); err != nil {
		return nil, err
	}

	rows, err := s.repo.Attendance(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AttendanceRate = AttendanceRate(rows[i].PresentCount, rows[i].Total)
	}
	return rows, nil
}

func (s *service) Feedback(ctx context.Context, actor access.Actor) ([]FeedbackReport, error) {
	if err := allowed(actor); err != nil {
		return nil, err
	}
	return s.repo.Feedback(ctx)
}

func (s *service) Payments(ctx context.Context, actor access.Actor) (*PaymentReport, error) {
	if err := allowed(actor); err != nil {
		return nil, err
	}

	summary, err := s.repo.PaymentSummary(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.payments.List(ctx, access.Filter{Scope: access.All})
	if err != nil {
		return nil, err
	}

	return &PaymentReport{PaymentSummary: *summary, Payments: payments}, nil
}
