package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var today = clock.Date(2025, time.March, 10)

type fakeClass struct {
	name         string
	schedule     time.Time
	capacity     int
	instructorID int
}

// fakeRepo serializes Book the way the class row lock does in postgres.
type fakeRepo struct {
	mu       sync.Mutex
	classes  map[int]fakeClass
	bookings []Booking
	nextID   int
}

func newFakeRepo(classes map[int]fakeClass) *fakeRepo {
	return &fakeRepo{classes: classes}
}

func (f *fakeRepo) Book(_ context.Context, userID, classID int, date time.Time, check func(Guard) error) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fc, ok := f.classes[classID]
	if !ok {
		return nil, ErrClassNotFound
	}

	g := Guard{ClassName: fc.name, Schedule: fc.schedule, Capacity: fc.capacity}
	for _, b := range f.bookings {
		if b.FitnessClassID == classID && b.Status == StatusBooked {
			g.Booked++
			if b.UserID == userID {
				g.AlreadyBooked = true
			}
		}
	}

	if err := check(g); err != nil {
		return nil, err
	}

	f.nextID++
	b := Booking{ID: f.nextID, UserID: userID, FitnessClassID: classID, BookingDate: date, Status: StatusBooked}
	f.bookings = append(f.bookings, b)
	return &b, nil
}

func (f *fakeRepo) joined(b Booking) *Booking {
	fc := f.classes[b.FitnessClassID]
	b.InstructorID = fc.instructorID
	b.ClassName = fc.name
	return &b
}

func (f *fakeRepo) GetByID(_ context.Context, id int) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.ID == id {
			return f.joined(b), nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) List(_ context.Context, filter access.Filter) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []Booking{}
	for _, b := range f.bookings {
		jb := f.joined(b)
		switch filter.Scope {
		case access.All:
		case access.Own:
			if jb.UserID != filter.UserID {
				continue
			}
		case access.Instructed:
			if jb.InstructorID != filter.UserID {
				continue
			}
		default:
			continue
		}
		out = append(out, *jb)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int, status Status) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return ErrBookingNotFound
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) BookingConfirmed(ctx context.Context, to, name, className string, date time.Time) error {
	return m.Called(ctx, to, name, className, date).Error(0)
}

func (m *MockNotifier) BookingCancelled(ctx context.Context, to, name, className string, date time.Time) error {
	return m.Called(ctx, to, name, className, date).Error(0)
}

func (m *MockNotifier) SubscriptionStarted(ctx context.Context, to, name, plan string, start, end time.Time) error {
	return m.Called(ctx, to, name, plan, start, end).Error(0)
}

func (m *MockNotifier) PaymentReceived(ctx context.Context, to, name string, amountCents int64, subscriptionID int) error {
	return m.Called(ctx, to, name, amountCents, subscriptionID).Error(0)
}

type recordingEmitter struct {
	mu    sync.Mutex
	types []string
}

func (e *recordingEmitter) Emit(_ context.Context, eventType string, _ any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, eventType)
}

func actorFor(role access.Role, id int) access.Actor {
	return access.Actor{UserID: id, Role: role, Grants: access.DefaultPolicy.Grants(role, access.Bookings)}
}

type fixture struct {
	repo     *fakeRepo
	users    *MockUsers
	notifier *MockNotifier
	emitter  *recordingEmitter
	svc      Service
}

func newFixture(classes map[int]fakeClass) *fixture {
	f := &fixture{
		repo:     newFakeRepo(classes),
		users:    new(MockUsers),
		notifier: new(MockNotifier),
		emitter:  &recordingEmitter{},
	}
	f.users.On("FindByID", mock.Anything, mock.Anything).
		Return(&user.User{ID: 1, Name: "Mia", Email: "mia@example.com"}, nil).Maybe()
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.notifier.On("BookingCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.svc = NewService(f.repo, f.users, f.notifier, f.emitter, clock.Fixed(today.Add(15*time.Hour)))
	return f
}

func yoga(capacity int) map[int]fakeClass {
	return map[int]fakeClass{
		1: {name: "Morning Yoga", schedule: today.AddDate(0, 0, 2), capacity: capacity, instructorID: 50},
	}
}

func TestValidateBooking(t *testing.T) {
	date := today
	tests := []struct {
		name  string
		guard Guard
		want  error
	}{
		{"ok", Guard{Schedule: date, Capacity: 2, Booked: 1}, nil},
		{"same day is not past", Guard{Schedule: date, Capacity: 1}, nil},
		{"past wins over full", Guard{Schedule: date.AddDate(0, 0, -1), Capacity: 1, Booked: 1, AlreadyBooked: true}, ErrPastClass},
		{"full wins over duplicate", Guard{Schedule: date, Capacity: 1, Booked: 1, AlreadyBooked: true}, ErrCapacityExceeded},
		{"duplicate", Guard{Schedule: date, Capacity: 3, Booked: 1, AlreadyBooked: true}, ErrDuplicateBooking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateBooking(tt.guard, date))
		})
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(yoga(5))

	b, err := f.svc.Create(context.Background(), actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, 1, b.UserID)
	assert.True(t, today.Equal(b.BookingDate), "booking date defaults to today")
	assert.Equal(t, []string{events.BookingCreated}, f.emitter.types)
	f.notifier.AssertCalled(t, "BookingConfirmed", mock.Anything, "mia@example.com", "Mia", "Morning Yoga", today)
}

func TestCreate_ExplicitDate(t *testing.T) {
	f := newFixture(yoga(5))

	b, err := f.svc.Create(context.Background(), actorFor(access.Member, 1),
		CreateBookingRequest{FitnessClassID: 1, BookingDate: "2025-03-12"})
	require.NoError(t, err)
	assert.True(t, clock.Date(2025, time.March, 12).Equal(b.BookingDate))

	_, err = f.svc.Create(context.Background(), actorFor(access.Member, 2),
		CreateBookingRequest{FitnessClassID: 1, BookingDate: "2025-03-13"})
	assert.ErrorIs(t, err, ErrPastClass)
}

func TestCreate_PastClass(t *testing.T) {
	f := newFixture(map[int]fakeClass{
		1: {name: "Old", schedule: today.AddDate(0, 0, -1), capacity: 5},
	})

	_, err := f.svc.Create(context.Background(), actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	assert.ErrorIs(t, err, ErrPastClass)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Empty(t, f.emitter.types)
	f.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	f := newFixture(yoga(1))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, actorFor(access.Member, 2), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCreate_Duplicate(t *testing.T) {
	f := newFixture(yoga(5))
	ctx := context.Background()

	_, err := f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestCreate_UnknownClass(t *testing.T) {
	f := newFixture(yoga(5))

	_, err := f.svc.Create(context.Background(), actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 99})
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestCreate_StaffCannotBook(t *testing.T) {
	f := newFixture(yoga(5))

	_, err := f.svc.Create(context.Background(), actorFor(access.Staff, 50), CreateBookingRequest{FitnessClassID: 1})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCreate_NotifierFailureIsNotFatal(t *testing.T) {
	f := newFixture(yoga(5))
	f.notifier.ExpectedCalls = nil
	f.notifier.On("BookingConfirmed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis down"))

	_, err := f.svc.Create(context.Background(), actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	assert.NoError(t, err)
}

func TestCreate_CancellationFreesCapacity(t *testing.T) {
	f := newFixture(yoga(1))
	ctx := context.Background()

	b, err := f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, actorFor(access.Member, 1), b.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, actorFor(access.Member, 2), CreateBookingRequest{FitnessClassID: 1})
	assert.NoError(t, err)
}

func TestCreate_ConcurrentBookingsNeverExceedCapacity(t *testing.T) {
	const capacity, callers = 5, 20
	f := newFixture(yoga(capacity))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		booked  int
		refused int
	)
	for i := 1; i <= callers; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), actorFor(access.Member, userID), CreateBookingRequest{FitnessClassID: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				booked++
			} else if errors.Is(err, ErrCapacityExceeded) {
				refused++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, booked)
	assert.Equal(t, callers-capacity, refused)
}

func TestGet_Scoping(t *testing.T) {
	f := newFixture(yoga(5))
	ctx := context.Background()

	b, err := f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor access.Actor
		want  error
	}{
		{"owner", actorFor(access.Member, 1), nil},
		{"other member", actorFor(access.Member, 2), ErrBookingNotFound},
		{"instructor", actorFor(access.Staff, 50), nil},
		{"other staff", actorFor(access.Staff, 51), ErrBookingNotFound},
		{"admin", actorFor(access.Admin, 99), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Get(ctx, tt.actor, b.ID)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestList_Scoping(t *testing.T) {
	f := newFixture(yoga(5))
	ctx := context.Background()

	for _, uid := range []int{1, 2, 3} {
		_, err := f.svc.Create(ctx, actorFor(access.Member, uid), CreateBookingRequest{FitnessClassID: 1})
		require.NoError(t, err)
	}

	own, err := f.svc.List(ctx, actorFor(access.Member, 2))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, 2, own[0].UserID)

	instructed, err := f.svc.List(ctx, actorFor(access.Staff, 50))
	require.NoError(t, err)
	assert.Len(t, instructed, 3)

	none, err := f.svc.List(ctx, actorFor(access.Staff, 51))
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := f.svc.List(ctx, actorFor(access.Admin, 99))
	require.NoError(t, err)
	ids := []int{}
	for _, b := range all {
		ids = append(ids, b.UserID)
	}
	sort.Ints(ids)
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(yoga(5))
	ctx := context.Background()

	b, err := f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	t.Run("other member sees not found", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, actorFor(access.Member, 2), b.ID, StatusCancelled)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("instructor cannot update", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, actorFor(access.Staff, 50), b.ID, StatusAttended)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(ctx, actorFor(access.Member, 1), b.ID, Status("LOST"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("owner cancels", func(t *testing.T) {
		updated, err := f.svc.UpdateStatus(ctx, actorFor(access.Member, 1), b.ID, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)
		f.notifier.AssertCalled(t, "BookingCancelled", mock.Anything, "mia@example.com", "Mia", "Morning Yoga", today)
	})

	t.Run("admin marks attended", func(t *testing.T) {
		updated, err := f.svc.UpdateStatus(ctx, actorFor(access.Admin, 99), b.ID, StatusAttended)
		require.NoError(t, err)
		assert.Equal(t, StatusAttended, updated.Status)
	})

	assert.Contains(t, f.emitter.types, events.BookingStatusChanged)
}

func TestDelete(t *testing.T) {
	f := newFixture(yoga(5))
	ctx := context.Background()

	b, err := f.svc.Create(ctx, actorFor(access.Member, 1), CreateBookingRequest{FitnessClassID: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, actorFor(access.Member, 1), b.ID), apperr.ErrForbidden)
	assert.NoError(t, f.svc.Delete(ctx, actorFor(access.Admin, 99), b.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, actorFor(access.Admin, 99), b.ID), ErrBookingNotFound)
	assert.Contains(t, f.emitter.types, events.BookingDeleted)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusBooked.Valid())
	assert.True(t, StatusAttended.Valid())
	assert.False(t, Status("booked").Valid())
}
