package booking

import "time"

type Status string

const (
	StatusBooked    Status = "BOOKED"
	StatusCancelled Status = "CANCELLED"
	StatusAttended  Status = "ATTENDED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusAttended:
		return true
	}
	return false
}

type Booking struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user"`
	FitnessClassID int       `db:"fitness_class_id" json:"fitness_class"`
	BookingDate    time.Time `db:"booking_date" json:"booking_date"`
	Status         Status    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// Joined from the class on reads.
	InstructorID int    `db:"instructor_id" json:"-"`
	ClassName    string `db:"class_name" json:"-"`
}

// Guard is the state of a class read under lock when a booking is placed.
type Guard struct {
	ClassName     string
	Schedule      time.Time
	Capacity      int
	Booked        int
	AlreadyBooked bool
}

type CreateBookingRequest struct {
	FitnessClassID int    `json:"fitness_class" binding:"required,gte=1"`
	BookingDate    string `json:"booking_date" binding:"omitempty,datetime=2006-01-02" example:"2025-03-10"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required" example:"CANCELLED"`
}
