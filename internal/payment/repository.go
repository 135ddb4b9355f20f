package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/db"
	"github.com/alaminmiah4274/iron-temple/internal/subscription"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const paymentColumns = `id, user_id, subscription_id, amount_cents, payment_date, status`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	var created Payment
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO payments (id, user_id, subscription_id, amount_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+paymentColumns,
		p.ID, p.UserID, p.SubscriptionID, p.AmountCents, p.Status)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, filter access.Filter) ([]Payment, error) {
	payments := []Payment{}

	var err error
	switch filter.Scope {
	case access.All:
		err = r.db.SelectContext(ctx, &payments,
			`SELECT `+paymentColumns+` FROM payments ORDER BY payment_date DESC`)
	case access.Own:
		err = r.db.SelectContext(ctx, &payments,
			`SELECT `+paymentColumns+` FROM payments WHERE user_id = $1 ORDER BY payment_date DESC`, filter.UserID)
	default:
		return payments, nil
	}
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p,
		`UPDATE payments SET status = $2 WHERE id = $1 RETURNING `+paymentColumns, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *repository) Settle(ctx context.Context, subscriptionID int, check func(Settlement) (uuid.UUID, error)) (*Settlement, error) {
	var s Settlement
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &s.Subscription, `
			SELECT id, user_id, membership_id, start_date, end_date, status, created_at
			FROM subscriptions WHERE id = $1 FOR UPDATE`, subscriptionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return subscription.ErrSubscriptionNotFound
			}
			return err
		}

		s.Pending = []Payment{}
		err = tx.SelectContext(ctx, &s.Pending, `
			SELECT `+paymentColumns+` FROM payments
			WHERE subscription_id = $1 AND status = 'PENDING'
			ORDER BY payment_date DESC`, subscriptionID)
		if err != nil {
			return err
		}

		if s.Paid, err = check(s); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE subscriptions SET status = 'PAID' WHERE id = $1`, subscriptionID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE payments SET status = 'COMPLETED' WHERE id = $1`, s.Paid); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE payments SET status = 'FAILED' WHERE subscription_id = $1 AND status = 'PENDING'`, subscriptionID)
		if err != nil {
			return err
		}
		s.Superseded, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Subscription.Status = subscription.StatusPaid
	return &s, nil
}
