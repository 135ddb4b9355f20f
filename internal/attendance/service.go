package attendance

import (
	"context"

	"github.com/alaminmiah4274/iron-temple/internal/access"
	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/clock"
	"github.com/alaminmiah4274/iron-temple/internal/events"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
)

var (
	ErrAttendanceNotFound  = apperr.New(apperr.NotFound, "attendance record not found")
	ErrClassNotFound       = apperr.New(apperr.Validation, "fitness class does not exist")
	ErrInvalidDate         = apperr.New(apperr.Validation, "date must be in the form YYYY-MM-DD")
	ErrDuplicateAttendance = apperr.New(apperr.Validation, "attendance for this member, class and date is already recorded")
)

type Service interface {
	Create(ctx context.Context, actor access.Actor, req CreateAttendanceRequest) (*Attendance, error)
	Get(ctx context.Context, actor access.Actor, id int) (*Attendance, error)
	List(ctx context.Context, actor access.Actor) ([]Attendance, error)
	Update(ctx context.Context, actor access.Actor, id int, req UpdateAttendanceRequest) (*Attendance, error)
}

type service struct {
	repo   Repository
	events events.Emitter
}

func NewService(repo Repository, emitter events.Emitter) Service {
	return &service{
		repo:   repo,
		events: emitter,
	}
}

func target(a *Attendance) access.Target {
	return access.Target{OwnerID: a.UserID, InstructorID: a.InstructorID}
}

// Create marks a member present or absent. Staff may only mark classes they instruct.
func (s *service) Create(ctx context.Context, actor access.Actor, req CreateAttendanceRequest) (*Attendance, error) {
	if !actor.Can(access.Create) {
		return nil, apperr.ErrForbidden
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	instructorID, err := s.repo.ClassInstructor(ctx, req.FitnessClassID)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Create, access.Target{InstructorID: instructorID}) {
		return nil, apperr.ErrForbidden
	}

	status := req.Status
	if status == "" {
		status = StatusPresent
	}

	a, err := s.repo.Create(ctx, &Attendance{
		UserID:         req.UserID,
		FitnessClassID: req.FitnessClassID,
		Date:           date,
		Status:         status,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("attendance marked", "attendance_id", a.ID, "user_id", a.UserID, "class_id", a.FitnessClassID, "status", a.Status)
	s.events.Emit(ctx, events.AttendanceMarked, a)
	return a, nil
}

func (s *service) Get(ctx context.Context, actor access.Actor, id int) (*Attendance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Read, target(a)) {
		return nil, ErrAttendanceNotFound
	}
	return a, nil
}

func (s *service) List(ctx context.Context, actor access.Actor) ([]Attendance, error) {
	return s.repo.List(ctx, actor.Filter(access.Read))
}

func (s *service) Update(ctx context.Context, actor access.Actor, id int, req UpdateAttendanceRequest) (*Attendance, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !actor.Permits(access.Update, target(a)) {
		return nil, apperr.ErrForbidden
	}

	if req.Date != nil {
		date, err := clock.ParseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		a.Date = date
	}
	if req.Status != nil {
		a.Status = *req.Status
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.AttendanceMarked, updated)
	return updated, nil
}
