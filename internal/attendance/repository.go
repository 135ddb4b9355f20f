package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectAttendance = `
	SELECT a.id, a.user_id, a.fitness_class_id, a.date, a.status, fc.instructor_id
	FROM attendance a
	JOIN fitness_classes fc ON fc.id = a.fitness_class_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Attendance) (*Attendance, error) {
	var id int
	err := r.db.GetContext(ctx, &id, `
		INSERT INTO attendance (user_id, fitness_class_id, date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		a.UserID, a.FitnessClassID, a.Date, a.Status)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateAttendance
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Attendance, error) {
	var a Attendance
	err := r.db.GetContext(ctx, &a, selectAttendance+` WHERE a.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, filter access.Filter) ([]Attendance, error) {
	records := []Attendance{}
	const order = ` ORDER BY a.date DESC, a.id DESC`

	var err error
	switch filter.Scope {
	case access.All:
		err = r.db.SelectContext(ctx, &records, selectAttendance+order)
	case access.Own:
		err = r.db.SelectContext(ctx, &records, selectAttendance+` WHERE a.user_id = $1`+order, filter.UserID)
	case access.Instructed:
		err = r.db.SelectContext(ctx, &records, selectAttendance+` WHERE fc.instructor_id = $1`+order, filter.UserID)
	default:
		return records, nil
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Update(ctx context.Context, a *Attendance) (*Attendance, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE attendance SET date = $2, status = $3 WHERE id = $1`, a.ID, a.Date, a.Status)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateAttendance
		}
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAttendanceNotFound
	}
	return r.GetByID(ctx, a.ID)
}

func (r *repository) ClassInstructor(ctx context.Context, classID int) (int, error) {
	var instructorID int
	err := r.db.GetContext(ctx, &instructorID, `SELECT instructor_id FROM fitness_classes WHERE id = $1`, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrClassNotFound
		}
		return 0, err
	}
	return instructorID, nil
}
