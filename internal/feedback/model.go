package feedback

import "time"

type Feedback struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user"`
	FitnessClassID int       `db:"fitness_class_id" json:"fitness_class"`
	Ratings        int       `db:"ratings" json:"ratings"`
	Comment        string    `db:"comment" json:"comment"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	InstructorID int `db:"instructor_id" json:"-"`
}

type CreateFeedbackRequest struct {
	FitnessClassID int    `json:"fitness_class" binding:"required,gte=1"`
	Ratings        int    `json:"ratings" binding:"required,min=1,max=5"`
	Comment        string `json:"comment" binding:"required,max=2000"`
}

type UpdateReviewRequest struct {
	Ratings *int    `json:"ratings" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}
