package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alaminmiah4274/iron-temple/internal/config"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

func newTestService(rdb *redis.Client) *Service {
	svc := newService(rdb, &config.Config{
		EmailFrom:     "noreply@irontemple.gym",
		EmailFromName: "Iron Temple",
		SMTPHost:      "smtp.test.com",
		SMTPPort:      587,
		SMTPUser:      "test@example.com",
		SMTPPass:      "password",
	})
	svc.retryDelay = 0
	return svc
}

func queued(t *testing.T, job EmailJob) string {
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return string(data)
}

func TestSend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	err := newTestService(db).Send(context.Background(), "user@example.com", "User", "Hello", "Test body")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(assert.AnError)

	err := newTestService(db).Send(context.Background(), "user@example.com", "User", "Hello", "Test body")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifierTemplates(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		pattern string
		send    func(s *Service) error
	}{
		{
			name:    "booking confirmed",
			pattern: `"type":"booking_confirmation".*Morning Yoga`,
			send: func(s *Service) error {
				return s.BookingConfirmed(context.Background(), "m@example.com", "Mia", "Morning Yoga", date)
			},
		},
		{
			name:    "booking cancelled",
			pattern: `"type":"booking_cancellation"`,
			send: func(s *Service) error {
				return s.BookingCancelled(context.Background(), "m@example.com", "Mia", "Morning Yoga", date)
			},
		},
		{
			name:    "subscription started",
			pattern: `"type":"subscription_started".*Gold`,
			send: func(s *Service) error {
				return s.SubscriptionStarted(context.Background(), "m@example.com", "Mia", "Gold", date, date.AddDate(0, 0, 30))
			},
		},
		{
			name:    "payment receipt",
			pattern: `"type":"payment_receipt".*49\.90`,
			send: func(s *Service) error {
				return s.PaymentReceived(context.Background(), "m@example.com", "Mia", 4990, 12)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			mock.Regexp().ExpectLPush("emails", tt.pattern).SetVal(1)

			assert.NoError(t, tt.send(newTestService(db)))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProcessNextSends(t *testing.T) {
	db, mock := redismock.NewClientMock()
	job := EmailJob{Type: TypeGeneric, To: "user@example.com", Subject: "Hi", Body: "Body"}
	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", queued(t, job)})

	svc := newTestService(db)
	var sentTo []string
	svc.send = func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		sentTo = to
		return nil
	}

	svc.processNext(context.Background())

	assert.Equal(t, []string{"user@example.com"}, sentTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNextRequeuesOnFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	job := EmailJob{Type: TypeGeneric, To: "user@example.com", Subject: "Hi"}
	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", queued(t, job)})
	mock.Regexp().ExpectLPush("emails", `"tries":1`).SetVal(1)

	svc := newTestService(db)
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("smtp down") }

	svc.processNext(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessNextMovesToFailedQueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	job := EmailJob{Type: TypeGeneric, To: "user@example.com", Subject: "Hi", Tries: 2}
	mock.ExpectBRPop(2*time.Second, "emails").SetVal([]string{"emails", queued(t, job)})
	mock.Regexp().ExpectLPush("emails:failed", `smtp down`).SetVal(1)

	svc := newTestService(db)
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("smtp down") }

	svc.processNext(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendNowWithoutSMTPHost(t *testing.T) {
	db, _ := redismock.NewClientMock()
	svc := newTestService(db)
	svc.smtpHost = ""
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without an SMTP host")
		return nil
	}

	assert.NoError(t, svc.sendNow(EmailJob{To: "user@example.com"}))
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectLLen("emails").SetVal(5)

	length := newTestService(db).QueueLength(context.Background())
	assert.Equal(t, int64(5), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, newTestService(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
