package attendance

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"
)

type Repository interface {
	Create(ctx context.Context, a *Attendance) (*Attendance, error)
	GetByID(ctx context.Context, id int) (*Attendance, error)
	List(ctx context.Context, filter access.Filter) ([]Attendance, error)
	Update(ctx context.Context, a *Attendance) (*Attendance, error)
	// ClassInstructor returns the instructor of a class, or ErrClassNotFound.
	ClassInstructor(ctx context.Context, classID int) (int, error)
}
