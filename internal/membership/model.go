package membership

import "time"

type Duration string

const (
	Weekly  Duration = "WEEKLY"
	Monthly Duration = "MONTHLY"
	Yearly  Duration = "YEARLY"
)

// EndDate returns the last day of a term starting on start. Anything that is
// not weekly or monthly runs for a year.
func (d Duration) EndDate(start time.Time) time.Time {
	switch d {
	case Weekly:
		return start.AddDate(0, 0, 7)
	case Monthly:
		return start.AddDate(0, 0, 30)
	default:
		return start.AddDate(0, 0, 365)
	}
}

type Membership struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	Duration   Duration  `db:"duration" json:"duration"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateMembershipRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	PriceCents int64  `json:"price_cents" binding:"gte=0"`
	Duration   string `json:"duration" binding:"required,oneof=WEEKLY MONTHLY YEARLY"`
}

type UpdateMembershipRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=100"`
	PriceCents *int64  `json:"price_cents" binding:"omitempty,gte=0"`
	Duration   *string `json:"duration" binding:"omitempty,oneof=WEEKLY MONTHLY YEARLY"`
}
