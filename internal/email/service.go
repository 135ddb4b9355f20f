package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alaminmiah4274/iron-temple/internal/config"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/metrics"
)

const (
	queueKey   = "emails"
	failedKey  = "emails:failed"
	maxTries   = 3
	dateFormat = "Mon, Jan 2 2006"
)

const (
	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingCancellation = "booking_cancellation"
	TypeSubscription        = "subscription_started"
	TypePaymentReceipt      = "payment_receipt"
	TypeGeneric             = "generic"
)

// Notifier is the member-facing mail surface used by the workflows.
// Implementations queue the message; delivery happens out of band.
type Notifier interface {
	BookingConfirmed(ctx context.Context, to, name, className string, date time.Time) error
	BookingCancelled(ctx context.Context, to, name, className string, date time.Time) error
	SubscriptionStarted(ctx context.Context, to, name, plan string, start, end time.Time) error
	PaymentReceived(ctx context.Context, to, name string, amountCents int64, subscriptionID int) error
}

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis      *redis.Client
	from       string
	fromName   string
	smtpHost   string
	smtpPort   string
	smtpUser   string
	smtpPass   string
	retryDelay time.Duration
	send       func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg *config.Config) *Service {
	return newService(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg)
}

func newService(rdb *redis.Client, cfg *config.Config) *Service {
	return &Service{
		redis:      rdb,
		from:       cfg.EmailFrom,
		fromName:   cfg.EmailFromName,
		smtpHost:   cfg.SMTPHost,
		smtpPort:   strconv.Itoa(cfg.SMTPPort),
		smtpUser:   cfg.SMTPUser,
		smtpPass:   cfg.SMTPPass,
		retryDelay: 5 * time.Second,
		send:       smtp.SendMail,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	return s.enqueue(ctx, TypeGeneric, to, name, subject, body)
}

func (s *Service) enqueue(ctx context.Context, kind, to, name, subject, body string) error {
	job := EmailJob{
		Type:    kind,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		metrics.RecordEmail(kind, "queue_failed")
		return err
	}

	logger.Debugf("Email queued: %s to %s", subject, to)
	return nil
}

// Start drains the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s (attempt %d): %v", job.To, job.Tries, err)

		if job.Tries < maxTries {
			select {
			case <-ctx.Done():
			case <-time.After(s.retryDelay):
			}
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, string(data))
			return
		}

		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Type, "success")
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	if s.smtpHost == "" {
		logger.Debugf("SMTP not configured, dropping %q to %s", job.Subject, job.To)
		return nil
	}

	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	return s.send(s.smtpHost+":"+s.smtpPort, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, string(data))
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) BookingConfirmed(ctx context.Context, to, name, className string, date time.Time) error {
	subject := "Booking Confirmed - " + className
	body := fmt.Sprintf(`Hi %s,

Your spot is reserved.

Class: %s
Date: %s

See you at Iron Temple!`, name, className, date.Format(dateFormat))

	return s.enqueue(ctx, TypeBookingConfirmation, to, name, subject, body)
}

func (s *Service) BookingCancelled(ctx context.Context, to, name, className string, date time.Time) error {
	subject := "Booking Cancelled - " + className
	body := fmt.Sprintf(`Hi %s,

Your booking has been cancelled:

Class: %s
Date: %s`, name, className, date.Format(dateFormat))

	return s.enqueue(ctx, TypeBookingCancellation, to, name, subject, body)
}

func (s *Service) SubscriptionStarted(ctx context.Context, to, name, plan string, start, end time.Time) error {
	subject := "Welcome to " + plan
	body := fmt.Sprintf(`Hi %s,

Your %s membership is active.

Starts: %s
Ends: %s

Complete your payment to keep it running.`, name, plan, start.Format(dateFormat), end.Format(dateFormat))

	return s.enqueue(ctx, TypeSubscription, to, name, subject, body)
}

func (s *Service) PaymentReceived(ctx context.Context, to, name string, amountCents int64, subscriptionID int) error {
	subject := "Payment Received"
	body := fmt.Sprintf(`Hi %s,

We received your payment of %d.%02d for subscription #%d.

Thank you!`, name, amountCents/100, amountCents%100, subscriptionID)

	return s.enqueue(ctx, TypePaymentReceipt, to, name, subject, body)
}
