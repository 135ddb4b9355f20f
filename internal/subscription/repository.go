package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/db"

	"github.com/jmoiron/sqlx"
)

const subscriptionColumns = `id, user_id, membership_id, start_date, end_date, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Subscribe(ctx context.Context, userID, membershipID int, draft func(Guard) (Subscription, error)) (*Subscription, error) {
	var created Subscription
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var g Guard
		err := tx.GetContext(ctx, &g.Membership,
			`SELECT id, name, price_cents, duration, created_at FROM memberships WHERE id = $1 FOR UPDATE`, membershipID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMembershipNotFound
			}
			return err
		}

		g.HasActive, err = db.Exists(ctx, tx,
			`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND membership_id = $2 AND status = 'ACTIVE')`,
			userID, membershipID)
		if err != nil {
			return err
		}

		sub, err := draft(g)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &created, `
			INSERT INTO subscriptions (user_id, membership_id, start_date, end_date, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+subscriptionColumns,
			userID, membershipID, sub.StartDate, sub.EndDate, sub.Status)
		if db.IsUniqueViolation(err) {
			return ErrDuplicateSubscription
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	var sub Subscription
	err := r.db.GetContext(ctx, &sub, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return &sub, nil
}

func (r *repository) List(ctx context.Context, f access.Filter) ([]Subscription, error) {
	var (
		where string
		args  []interface{}
	)

	switch f.Scope {
	case access.All:
	case access.Own:
		where, args = ` WHERE user_id = $1`, []interface{}{f.UserID}
	case access.Closed:
		where = ` WHERE status IN ('CANCELLED', 'EXPIRED')`
	default:
		return []Subscription{}, nil
	}

	subs := []Subscription{}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions` + where + ` ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, err
	}

	return subs, nil
}

func (r *repository) Transition(ctx context.Context, id int, from, to Status) (*Subscription, error) {
	var sub Subscription
	err := r.db.GetContext(ctx, &sub, `
		UPDATE subscriptions SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING `+subscriptionColumns,
		id, from, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTerminalSubscription
		}
		return nil, err
	}

	return &sub, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *repository) ExpireDue(ctx context.Context, today time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = 'EXPIRED' WHERE status = 'ACTIVE' AND end_date < $1`, today)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *repository) HasAny(ctx context.Context, userID, membershipID int) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND membership_id = $2)`,
		userID, membershipID)
}
