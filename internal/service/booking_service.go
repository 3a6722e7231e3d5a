package service

import (
	"context"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
	"go.uber.org/zap"
)

// BookCourseRequest is a student's request to book a matcher-produced slot.
type BookCourseRequest struct {
	StudentID   int64
	TeacherID   int64
	Date        time.Time
	Slot        model.TimeRange
	Type        model.CourseType
	MeetingLink string
	Location    string
	Title       string
	Notes       string
}

// BookingService orchestrates booking: it re-validates the requested slot
// against the matcher, then creates the pending course and debits the
// student's hours as one transaction.
type BookingService struct {
	store   repository.Store
	matcher *Matcher
	ledger  *LedgerService
	locks   *teacherLocks
	logger  *zap.Logger
	now     func() time.Time
}

func NewBookingService(store repository.Store, matcher *Matcher, ledger *LedgerService, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:   store,
		matcher: matcher,
		ledger:  ledger,
		locks:   newTeacherLocks(),
		logger:  logger,
		now:     time.Now,
	}
}

// BookCourse books a slot for the student. The requested slot must still be
// contained in the matcher's output at booking time, which closes the race
// between displaying a slot and submitting it. On any failure nothing is
// persisted and no hours are debited.
func (s *BookingService) BookCourse(ctx context.Context, req BookCourseRequest) (*model.Course, error) {
	if req.StudentID == req.TeacherID {
		return nil, apperr.Validationf("teacher and student must differ")
	}
	if req.Slot.StartMinute >= req.Slot.EndMinute {
		return nil, apperr.Validationf("slot start %s must be before end %s",
			model.FormatMinute(req.Slot.StartMinute), model.FormatMinute(req.Slot.EndMinute))
	}
	if req.Date.IsZero() {
		return nil, apperr.Validationf("date is required")
	}
	if err := validateTypeFields(req.Type, req.MeetingLink, req.Location); err != nil {
		return nil, err
	}

	date := model.DateOf(req.Date)
	startTime := date.Add(time.Duration(req.Slot.StartMinute) * time.Minute)
	endTime := date.Add(time.Duration(req.Slot.EndMinute) * time.Minute)

	// Serialize against other bookings for this teacher so re-validation and
	// commit are one step.
	unlock := s.locks.lock(req.TeacherID)
	defer unlock()

	now := s.now()
	if !startTime.After(now) {
		return nil, apperr.SlotUnavailablef("slot %s on %s is in the past",
			req.Slot, date.Format(time.DateOnly))
	}

	available, err := s.slotStillAvailable(ctx, req, date)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperr.SlotUnavailablef("slot %s on %s is no longer available",
			req.Slot, date.Format(time.DateOnly))
	}

	course := &model.Course{
		StudentID:   req.StudentID,
		TeacherID:   req.TeacherID,
		Title:       req.Title,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      model.CourseStatusPending,
		Type:        req.Type,
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		Notes:       req.Notes,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ledger.Debit(ctx, req.StudentID, course.Hours()); err != nil {
			return err
		}
		if err := s.store.Courses().Create(ctx, course); err != nil {
			return apperr.Internal(err, "create course")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("course booked",
		zap.Int64("course_id", course.ID),
		zap.Int64("student_id", req.StudentID),
		zap.Int64("teacher_id", req.TeacherID),
		zap.Time("start_time", course.StartTime),
		zap.Float64("hours", course.Hours()),
	)

	return course, nil
}

// slotStillAvailable re-runs the matcher restricted to the requested date
// and checks the slot is contained in a candidate.
func (s *BookingService) slotStillAvailable(ctx context.Context, req BookCourseRequest, date time.Time) (bool, error) {
	days, err := s.matcher.MatchingSlots(ctx, req.TeacherID, req.StudentID, date, 1)
	if err != nil {
		return false, err
	}
	for _, day := range days {
		if !model.SameDate(day.Date, date) {
			continue
		}
		for _, candidate := range day.Slots {
			if candidate.Contains(req.Slot) {
				return true, nil
			}
		}
	}
	return false, nil
}

// validateTypeFields enforces the course-type invariant: online courses
// carry a meeting link, offline courses carry a location, never both.
func validateTypeFields(t model.CourseType, meetingLink, location string) error {
	if !model.ValidCourseType(t) {
		return apperr.Validationf("unknown course type %q", t)
	}
	switch t {
	case model.CourseTypeOnline:
		if meetingLink == "" {
			return apperr.Validationf("online courses require a meeting link")
		}
		if location != "" {
			return apperr.Validationf("online courses must not set a location")
		}
	case model.CourseTypeOffline:
		if location == "" {
			return apperr.Validationf("offline courses require a location")
		}
		if meetingLink != "" {
			return apperr.Validationf("offline courses must not set a meeting link")
		}
	}
	return nil
}
