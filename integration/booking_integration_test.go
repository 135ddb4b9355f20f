package integration_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/auth"
	"github.com/alaminmiah4274/iron-temple/internal/booking"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentBookings_RespectCapacity(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	instructor := createTestUser(t, database, "coach@example.com", "staff")
	classID := createTestClass(t, database, instructor, time.Now().AddDate(0, 0, 7), 2)

	svc := booking.NewService(booking.NewRepository(database), user.NewRepository(database), quietNotifier{}, noopBus(), clock.System())

	const members = 5
	ids := make([]int, members)
	for i := range ids {
		ids[i] = createTestUser(t, database, fmt.Sprintf("member%d@example.com", i), "member")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		booked   int
		rejected int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := svc.Create(ctx, actorFor(id, access.Member, access.Bookings), booking.CreateBookingRequest{FitnessClassID: classID})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, booking.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, booked)
	assert.Equal(t, members-2, rejected)

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM bookings WHERE fitness_class_id = $1 AND status = 'BOOKED'`, classID))
	assert.Equal(t, 2, count)
}

func TestBookingHandler_Integration(t *testing.T) {
	database := setupTestDB(t)
	gin.SetMode(gin.TestMode)

	instructor := createTestUser(t, database, "coach@example.com", "staff")
	member := createTestUser(t, database, "member@example.com", "member")
	classID := createTestClass(t, database, instructor, time.Now().AddDate(0, 0, 3), 10)

	handler := booking.NewHandler(booking.NewService(booking.NewRepository(database), user.NewRepository(database), quietNotifier{}, noopBus(), clock.System()))

	router := gin.New()
	router.POST("/bookings",
		auth.AuthMiddleware(testSecret),
		access.Require(access.DefaultPolicy, access.Bookings, access.Create),
		handler.Create,
	)

	token := generateTestToken(t, member, "member@example.com", "member")
	book := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(fmt.Sprintf(`{"fitness_class":%d}`, classID)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("first booking succeeds", func(t *testing.T) {
		w := book()
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"BOOKED"`)
	})

	t.Run("second booking is a duplicate", func(t *testing.T) {
		w := book()
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already booked")
	})
}
