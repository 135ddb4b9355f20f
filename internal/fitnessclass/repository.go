package fitnessclass

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const classColumns = `id, name, description, instructor_id, schedule, duration, capacity, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, fc *FitnessClass) (*FitnessClass, error) {
	query := `
		INSERT INTO fitness_classes (name, description, instructor_id, schedule, duration, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + classColumns

	var created FitnessClass
	err := r.db.GetContext(ctx, &created, query,
		fc.Name, fc.Description, fc.InstructorID, fc.Schedule, fc.Duration, fc.Capacity)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*FitnessClass, error) {
	var fc FitnessClass
	err := r.db.GetContext(ctx, &fc, `SELECT `+classColumns+` FROM fitness_classes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	return &fc, nil
}

func (r *repository) ListWithAvailability(ctx context.Context) ([]ClassWithAvailability, error) {
	query := `
		SELECT
			fc.id, fc.name, fc.description, fc.instructor_id, fc.schedule,
			fc.duration, fc.capacity, fc.created_at,
			COUNT(b.id) AS booked_count
		FROM fitness_classes fc
		LEFT JOIN bookings b ON b.fitness_class_id = fc.id AND b.status = 'BOOKED'
		GROUP BY fc.id
		ORDER BY fc.schedule ASC, fc.id ASC
	`

	classes := []ClassWithAvailability{}
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, err
	}

	for i := range classes {
		available := classes[i].Capacity - classes[i].BookedCount
		if available < 0 {
			available = 0
		}
		classes[i].Available = available
		classes[i].IsFull = available == 0
	}

	return classes, nil
}

func (r *repository) Update(ctx context.Context, fc *FitnessClass) (*FitnessClass, error) {
	query := `
		UPDATE fitness_classes
		SET name = $2, description = $3, instructor_id = $4, schedule = $5, duration = $6, capacity = $7
		WHERE id = $1
		RETURNING ` + classColumns

	var updated FitnessClass
	err := r.db.GetContext(ctx, &updated, query,
		fc.ID, fc.Name, fc.Description, fc.InstructorID, fc.Schedule, fc.Duration, fc.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fitness_classes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClassNotFound
	}

	return nil
}
