package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	query := "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)"

	t.Run("Row present", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := Exists(context.Background(), sqlxDB, query, 1)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("No rows means false", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(2).
			WillReturnError(sql.ErrNoRows)

		ok, err := Exists(context.Background(), sqlxDB, query, 2)

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(3).
			WillReturnError(errors.New("connection reset"))

		_, err := Exists(context.Background(), sqlxDB, query, 3)

		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestWithTx(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	t.Run("Commits on success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = 'PAID' WHERE id = $1")).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := WithTx(context.Background(), sqlxDB, func(tx *sqlx.Tx) error {
			_, err := tx.Exec("UPDATE subscriptions SET status = 'PAID' WHERE id = $1", 7)
			return err
		})

		assert.NoError(t, err)
	})

	t.Run("Rolls back when fn fails", func(t *testing.T) {
		stop := errors.New("amount mismatch")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := WithTx(context.Background(), sqlxDB, func(*sqlx.Tx) error { return stop })

		assert.ErrorIs(t, err, stop)
	})

	t.Run("Begin failure", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := WithTx(context.Background(), sqlxDB, func(*sqlx.Tx) error {
			called = true
			return nil
		})

		assert.Error(t, err)
		assert.False(t, called)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
