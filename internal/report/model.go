package report

import (
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/payment"
)

type MembershipReport struct {
	MembershipType    string `db:"membership_type" json:"membership_type"`
	TotalMembers      int64  `db:"total_members" json:"total_members"`
	TotalRevenueCents int64  `db:"total_revenue_cents" json:"total_revenue_cents"`
}

type AttendanceReport struct {
	Date           time.Time `db:"date" json:"date"`
	ClassName      string    `db:"class_name" json:"class_name"`
	PresentCount   int64     `db:"present_count" json:"present_count"`
	AbsentCount    int64     `db:"absent_count" json:"absent_count"`
	Total          int64     `db:"total" json:"total"`
	AttendanceRate float64   `db:"-" json:"attendance_rate"`
}

type FeedbackReport struct {
	FitnessClass      string  `db:"fitness_class" json:"fitness_class"`
	AverageRatings    float64 `db:"average_ratings" json:"average_ratings"`
	TotalFeedbacks    int64   `db:"total_feedbacks" json:"total_feedbacks"`
	PositiveFeedbacks int64   `db:"positive_feedbacks" json:"positive_feedbacks"`
	NegativeFeedbacks int64   `db:"negative_feedbacks" json:"negative_feedbacks"`
}

type PaymentSummary struct {
	TotalPayments     int64 `db:"total_payments" json:"total_payments"`
	TotalAmountCents  int64 `db:"total_amount_cents" json:"total_amount_cents"`
	CompletedPayments int64 `db:"completed_payments" json:"completed_payments"`
	PendingPayments   int64 `db:"pending_payments" json:"pending_payments"`
	FailedPayments    int64 `db:"failed_payments" json:"failed_payments"`
}

type PaymentReport struct {
	PaymentSummary
	Payments []payment.Payment `json:"payments"`
}
