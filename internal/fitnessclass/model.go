package fitnessclass

import "time"

type FitnessClass struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	InstructorID int       `db:"instructor_id" json:"instructor"`
	Schedule     time.Time `db:"schedule" json:"schedule"`
	Duration     int       `db:"duration" json:"duration"`
	Capacity     int       `db:"capacity" json:"capacity"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type ClassWithAvailability struct {
	FitnessClass
	BookedCount int  `db:"booked_count" json:"booked_count"`
	Available   int  `db:"-" json:"available"`
	IsFull      bool `db:"-" json:"is_full"`
}

type CreateClassRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	InstructorID int    `json:"instructor" binding:"required,gte=1"`
	Schedule     string `json:"schedule" binding:"required,datetime=2006-01-02"`
	Duration     int    `json:"duration" binding:"required,gte=1"`
	Capacity     int    `json:"capacity" binding:"required,gte=1"`
}

// UpdateClassRequest is a partial update; nil fields are left unchanged.
type UpdateClassRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string `json:"description"`
	InstructorID *int    `json:"instructor" binding:"omitempty,gte=1"`
	Schedule     *string `json:"schedule" binding:"omitempty,datetime=2006-01-02"`
	Duration     *int    `json:"duration" binding:"omitempty,gte=1"`
	Capacity     *int    `json:"capacity" binding:"omitempty,gte=1"`
}
