package subscription

import (
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/membership"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
	StatusPaid      Status = "PAID"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusCancelled, StatusPaid:
		return true
	}
	return false
}

// Closed subscriptions are the ones staff may manage.
func (s Status) Closed() bool {
	return s == StatusCancelled || s == StatusExpired
}

type Subscription struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user"`
	MembershipID int       `db:"membership_id" json:"membership"`
	StartDate    time.Time `db:"start_date" json:"start_date"`
	EndDate      time.Time `db:"end_date" json:"end_date"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Guard is what Subscribe sees under the membership row lock.
type Guard struct {
	Membership membership.Membership
	HasActive  bool
}

type CreateSubscriptionRequest struct {
	MembershipID int `json:"membership" binding:"required,gte=1"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required" example:"CANCELLED"`
}

type ExpireResult struct {
	Expired int64 `json:"expired"`
}
