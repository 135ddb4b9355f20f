package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const membershipColumns = `id, name, price_cents, duration, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Membership) (*Membership, error) {
	query := `
		INSERT INTO memberships (name, price_cents, duration)
		VALUES ($1, $2, $3)
		RETURNING ` + membershipColumns

	var created Membership
	if err := r.db.GetContext(ctx, &created, query, m.Name, m.PriceCents, m.Duration); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `SELECT `+membershipColumns+` FROM memberships WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context) ([]Membership, error) {
	memberships := []Membership{}
	err := r.db.SelectContext(ctx, &memberships, `SELECT `+membershipColumns+` FROM memberships ORDER BY price_cents ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) Update(ctx context.Context, m *Membership) (*Membership, error) {
	query := `
		UPDATE memberships
		SET name = $2, price_cents = $3, duration = $4
		WHERE id = $1
		RETURNING ` + membershipColumns

	var updated Membership
	if err := r.db.GetContext(ctx, &updated, query, m.ID, m.Name, m.PriceCents, m.Duration); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}
	return nil
}
