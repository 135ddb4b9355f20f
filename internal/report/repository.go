package report

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/payment"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Memberships(ctx context.Context) ([]MembershipReport, error)
	Attendance(ctx context.Context) ([]AttendanceReport, error)
	Feedback(ctx context.Context) ([]FeedbackReport, error)
	PaymentSummary(ctx context.Context) (*PaymentSummary, error)
}

// Payments is the slice of the payment repository the payment report lists from.
type Payments interface {
	List(ctx context.Context, filter access.Filter) ([]payment.Payment, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Revenue is price times subscriptions, not the sum of payments received.
func (r *repository) Memberships(ctx context.Context) ([]MembershipReport, error) {
	rows := []MembershipReport{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT m.duration AS membership_type,
			COUNT(s.id) AS total_members,
			COALESCE(SUM(m.price_cents) FILTER (WHERE s.id IS NOT NULL), 0) AS total_revenue_cents
		FROM memberships m
		LEFT JOIN subscriptions s ON s.membership_id = m.id
		GROUP BY m.duration
		ORDER BY m.duration`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Attendance(ctx context.Context) ([]AttendanceReport, error) {
	rows := []AttendanceReport{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT a.date, fc.name AS class_name,
			COUNT(*) FILTER (WHERE a.status = 'PRESENT') AS present_count,
			COUNT(*) FILTER (WHERE a.status = 'ABSENT') AS absent_count,
			COUNT(*) AS total
		FROM attendance a
		JOIN fitness_classes fc ON fc.id = a.fitness_class_id
		GROUP BY a.date, fc.id, fc.name
		ORDER BY a.date DESC, fc.name`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Feedback(ctx context.Context) ([]FeedbackReport, error) {
	rows := []FeedbackReport{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT fc.name AS fitness_class,
			AVG(f.ratings)::float8 AS average_ratings,
			COUNT(*) AS total_feedbacks,
			COUNT(*) FILTER (WHERE f.ratings >= 4) AS positive_feedbacks,
			COUNT(*) FILTER (WHERE f.ratings <= 2) AS negative_feedbacks
		FROM feedback f
		JOIN fitness_classes fc ON fc.id = f.fitness_class_id
		GROUP BY fc.id, fc.name
		ORDER BY average_ratings DESC, fc.name`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) PaymentSummary(ctx context.Context) (*PaymentSummary, error) {
	var s PaymentSummary
	err := r.db.GetContext(ctx, &s, `
		SELECT COUNT(*) AS total_payments,
			COALESCE(SUM(amount_cents), 0) AS total_amount_cents,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed_payments,
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending_payments,
			COUNT(*) FILTER (WHERE status = 'FAILED') AS failed_payments
		FROM payments`)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
