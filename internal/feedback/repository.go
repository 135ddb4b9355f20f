package feedback

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectFeedback = `
	SELECT f.id, f.user_id, f.fitness_class_id, f.ratings, f.comment, f.created_at, fc.instructor_id
	FROM feedback f
	JOIN fitness_classes fc ON fc.id = f.fitness_class_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts only when the class exists, so a missing class is told apart
// from a repeated review.
func (r *repository) Create(ctx context.Context, f *Feedback) (*Feedback, error) {
	var id int
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO feedback (user_id, fitness_class_id, ratings, comment)
		SELECT $1::integer, id, $3::integer, $4::text FROM fitness_classes WHERE id = $2
		RETURNING id`,
		f.UserID, f.FitnessClassID, f.Ratings, f.Comment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateFeedback
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Feedback, error) {
	var f Feedback
	err := r.db.GetContext(ctx, &f, selectFeedback+` WHERE f.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *repository) List(ctx context.Context, filter access.Filter) ([]Feedback, error) {
	items := []Feedback{}
	const order = ` ORDER BY f.created_at DESC, f.id DESC`

	var err error
	switch filter.Scope {
	case access.All:
		err = r.db.SelectContext(ctx, &items, selectFeedback+order)
	case access.Own:
		err = r.db.SelectContext(ctx, &items, selectFeedback+` WHERE f.user_id = $1`+order, filter.UserID)
	case access.Instructed:
		err = r.db.SelectContext(ctx, &items, selectFeedback+` WHERE fc.instructor_id = $1`+order, filter.UserID)
	default:
		return items, nil
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, f *Feedback) (*Feedback, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feedback SET ratings = $2, comment = $3 WHERE id = $1`, f.ID, f.Ratings, f.Comment)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrFeedbackNotFound
	}
	return r.GetByID(ctx, f.ID)
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
