package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
)

type Attendance struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user"`
	FitnessClassID int       `db:"fitness_class_id" json:"fitness_class"`
	Date           time.Time `db:"date" json:"date"`
	Status         Status    `db:"status" json:"status"`

	InstructorID int `db:"instructor_id" json:"-"`
}

type CreateAttendanceRequest struct {
	UserID         int    `json:"user" binding:"required,gte=1"`
	FitnessClassID int    `json:"fitness_class" binding:"required,gte=1"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	Status         Status `json:"status" binding:"omitempty,oneof=PRESENT ABSENT"`
}

// UpdateAttendanceRequest is a partial update; nil fields are left unchanged.
type UpdateAttendanceRequest struct {
	Date   *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Status *Status `json:"status" binding:"omitempty,oneof=PRESENT ABSENT"`
}
