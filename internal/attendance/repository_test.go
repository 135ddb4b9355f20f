package attendance

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAttendanceMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

var attendanceRow = []string{"id", "user_id", "fitness_class_id", "date", "status", "instructor_id"}

func TestCreate_ReadsBackJoinedRow(t *testing.T) {
	repo, mock := setupAttendanceMock(t)
	date := clock.Date(2025, time.March, 10)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance (user_id, fitness_class_id, date, status) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs(5, 3, date, StatusPresent).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows(attendanceRow).AddRow(11, 5, 3, date, "PRESENT", 9))

	a, err := repo.Create(context.Background(), &Attendance{UserID: 5, FitnessClassID: 3, Date: date, Status: StatusPresent})
	require.NoError(t, err)

	assert.Equal(t, 9, a.InstructorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := setupAttendanceMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &Attendance{UserID: 5, FitnessClassID: 3, Status: StatusPresent})
	assert.ErrorIs(t, err, ErrDuplicateAttendance)
}

func TestList_Scopes(t *testing.T) {
	tests := []struct {
		name    string
		filter  access.Filter
		pattern string
	}{
		{"own", access.Filter{Scope: access.Own, UserID: 5}, `WHERE a.user_id = \$1 ORDER BY a.date DESC`},
		{"instructed", access.Filter{Scope: access.Instructed, UserID: 9}, `WHERE fc.instructor_id = \$1 ORDER BY`},
		{"all", access.Filter{Scope: access.All}, `JOIN fitness_classes fc ON fc.id = a.fitness_class_id ORDER BY`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupAttendanceMock(t)
			mock.ExpectQuery(tt.pattern).WillReturnRows(sqlmock.NewRows(attendanceRow))

			records, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Empty(t, records)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := setupAttendanceMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendance SET date = $2, status = $3 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), &Attendance{ID: 11, Status: StatusAbsent})
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
}

func TestClassInstructor(t *testing.T) {
	repo, mock := setupAttendanceMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT instructor_id FROM fitness_classes WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"instructor_id"}).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT instructor_id FROM fitness_classes WHERE id = $1")).
		WithArgs(4).
		WillReturnError(sql.ErrNoRows)

	id, err := repo.ClassInstructor(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = repo.ClassInstructor(context.Background(), 4)
	assert.ErrorIs(t, err, ErrClassNotFound)
}
