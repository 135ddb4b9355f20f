package subscription

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/membership"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewRepository(sqlxDB), mock
}

var subscriptionRow = []string{"id", "user_id", "membership_id", "start_date", "end_date", "status", "created_at"}

func expectMembershipLock(mock sqlmock.Sqlmock, active bool) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, price_cents, duration, created_at FROM memberships WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price_cents", "duration", "created_at"}).
			AddRow(5, "Gold", 5000, "MONTHLY", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND membership_id = $2 AND status = 'ACTIVE')")).
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(active))
}

func TestSubscribe(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)
	start := clock.Date(2024, time.January, 1)
	end := clock.Date(2024, time.January, 31)

	expectMembershipLock(mock, false)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions (user_id, membership_id, start_date, end_date, status) VALUES ($1, $2, $3, $4, $5)")).
		WithArgs(1, 5, start, end, StatusActive).
		WillReturnRows(sqlmock.NewRows(subscriptionRow).AddRow(3, 1, 5, start, end, "ACTIVE", time.Now()))
	mock.ExpectCommit()

	var seen Guard
	sub, err := repo.Subscribe(context.Background(), 1, 5, func(g Guard) (Subscription, error) {
		seen = g
		return Subscription{StartDate: start, EndDate: end, Status: StatusActive}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 3, sub.ID)
	assert.Equal(t, membership.Monthly, seen.Membership.Duration)
	assert.False(t, seen.HasActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribe_DraftRejects(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)

	expectMembershipLock(mock, true)
	mock.ExpectRollback()

	_, err := repo.Subscribe(context.Background(), 1, 5, func(g Guard) (Subscription, error) {
		if g.HasActive {
			return Subscription{}, ErrDuplicateSubscription
		}
		return Subscription{}, nil
	})
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscribe_UniqueIndexBackstop(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)

	expectMembershipLock(mock, false)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Subscribe(context.Background(), 1, 5, func(Guard) (Subscription, error) {
		return Subscription{Status: StatusActive}, nil
	})
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
}

func TestRepositorySubscribe_UnknownMembership(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM memberships WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Subscribe(context.Background(), 1, 5, func(Guard) (Subscription, error) {
		t.Fatal("draft must not run")
		return Subscription{}, nil
	})
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestTransition(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE subscriptions SET status = $3 WHERE id = $1 AND status = $2")).
		WithArgs(3, StatusActive, StatusPaid).
		WillReturnRows(sqlmock.NewRows(subscriptionRow).AddRow(3, 1, 5, now, now, "PAID", now))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE subscriptions SET status = $3 WHERE id = $1 AND status = $2")).
		WithArgs(3, StatusActive, StatusPaid).
		WillReturnError(sql.ErrNoRows)

	sub, err := repo.Transition(context.Background(), 3, StatusActive, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, sub.Status)

	_, err = repo.Transition(context.Background(), 3, StatusActive, StatusPaid)
	assert.ErrorIs(t, err, ErrTerminalSubscription)
}

func TestList_Scopes(t *testing.T) {
	tests := []struct {
		name    string
		filter  access.Filter
		pattern string
	}{
		{"own", access.Filter{Scope: access.Own, UserID: 1}, `FROM subscriptions WHERE user_id = \$1 ORDER BY`},
		{"closed", access.Filter{Scope: access.Closed, UserID: 3}, `WHERE status IN \('CANCELLED', 'EXPIRED'\)`},
		{"all", access.Filter{Scope: access.All}, `FROM subscriptions ORDER BY created_at DESC`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupSubscriptionMock(t)
			mock.ExpectQuery(tt.pattern).WillReturnRows(sqlmock.NewRows(subscriptionRow))

			subs, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Empty(t, subs)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryExpireDue(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)
	today := clock.Date(2024, time.February, 1)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscriptions SET status = 'EXPIRED' WHERE status = 'ACTIVE' AND end_date < $1")).
		WithArgs(today).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.ExpireDue(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestHasAny(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id = $1 AND membership_id = $2)")).
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasAny(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := setupSubscriptionMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscriptions WHERE id = $1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 3), ErrSubscriptionNotFound)
}
