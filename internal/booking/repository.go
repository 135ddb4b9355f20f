package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/db"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `id, user_id, fitness_class_id, booking_date, status, created_at`

const selectBookings = `
	SELECT b.id, b.user_id, b.fitness_class_id, b.booking_date, b.status, b.created_at, fc.instructor_id, fc.name AS class_name
	FROM bookings b
	JOIN fitness_classes fc ON fc.id = b.fitness_class_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Book(ctx context.Context, userID, classID int, date time.Time, check func(Guard) error) (*Booking, error) {
	var b Booking
	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var class struct {
			Name     string    `db:"name"`
			Schedule time.Time `db:"schedule"`
			Capacity int       `db:"capacity"`
		}
		err := tx.GetContext(ctx, &class,
			`SELECT name, schedule, capacity FROM fitness_classes WHERE id = $1 FOR UPDATE`, classID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrClassNotFound
			}
			return err
		}

		guard := Guard{ClassName: class.Name, Schedule: class.Schedule, Capacity: class.Capacity}

		err = tx.GetContext(ctx, &guard.Booked,
			`SELECT COUNT(*) FROM bookings WHERE fitness_class_id = $1 AND status = 'BOOKED'`, classID)
		if err != nil {
			return err
		}

		guard.AlreadyBooked, err = db.Exists(ctx, tx,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id = $1 AND fitness_class_id = $2 AND status = 'BOOKED')`,
			userID, classID)
		if err != nil {
			return err
		}

		if err := check(guard); err != nil {
			return err
		}

		err = tx.GetContext(ctx, &b, `
			INSERT INTO bookings (user_id, fitness_class_id, booking_date, status)
			VALUES ($1, $2, $3, 'BOOKED')
			RETURNING `+bookingColumns,
			userID, classID, date)
		if db.IsUniqueViolation(err) {
			return ErrDuplicateBooking
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, selectBookings+` WHERE b.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) List(ctx context.Context, f access.Filter) ([]Booking, error) {
	var (
		where string
		args  []interface{}
	)

	switch f.Scope {
	case access.All:
	case access.Own:
		where, args = ` WHERE b.user_id = $1`, []interface{}{f.UserID}
	case access.Instructed:
		where, args = ` WHERE fc.instructor_id = $1`, []interface{}{f.UserID}
	default:
		return []Booking{}, nil
	}

	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings, selectBookings+where+` ORDER BY b.booking_date DESC, b.id DESC`, args...)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`UPDATE bookings SET status = $2 WHERE id = $1 RETURNING `+bookingColumns, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}

	return nil
}
