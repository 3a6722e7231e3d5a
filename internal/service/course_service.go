package service

import (
	"context"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
	"go.uber.org/zap"
)

// CourseService owns the course lifecycle. All status changes and their
// ledger side effects go through here, each inside a single transaction.
type CourseService struct {
	store  repository.Store
	ledger *LedgerService
	logger *zap.Logger
	now    func() time.Time
}

func NewCourseService(store repository.Store, ledger *LedgerService, logger *zap.Logger) *CourseService {
	return &CourseService{
		store:  store,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns a course to one of its parties or an admin.
func (s *CourseService) Get(ctx context.Context, courseID, actorID int64) (*model.Course, error) {
	c, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.IsParty(actorID) {
		if err := s.requireAdmin(ctx, actorID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CoursesByTeacher lists a teacher's courses, optionally filtered by status.
func (s *CourseService) CoursesByTeacher(ctx context.Context, teacherID int64, status *model.CourseStatus) ([]*model.Course, error) {
	if status != nil && !model.ValidStatus(*status) {
		return nil, apperr.Validationf("unknown status %q", *status)
	}
	courses, err := s.store.Courses().GetByTeacherID(ctx, teacherID, status)
	if err != nil {
		return nil, apperr.Internal(err, "load courses")
	}
	return courses, nil
}

// CoursesByStudent lists a student's courses, optionally filtered by status.
func (s *CourseService) CoursesByStudent(ctx context.Context, studentID int64, status *model.CourseStatus) ([]*model.Course, error) {
	if status != nil && !model.ValidStatus(*status) {
		return nil, apperr.Validationf("unknown status %q", *status)
	}
	courses, err := s.store.Courses().GetByStudentID(ctx, studentID, status)
	if err != nil {
		return nil, apperr.Internal(err, "load courses")
	}
	return courses, nil
}

// Confirm moves a pending course to confirmed. Only the assigned teacher may
// confirm.
func (s *CourseService) Confirm(ctx context.Context, courseID, actorID int64) (*model.Course, error) {
	return s.transition(ctx, courseID, actorID, model.CourseStatusConfirmed, "")
}

// Cancel terminally cancels a pending or confirmed course and refunds the
// full duration to the student. Either party may cancel.
func (s *CourseService) Cancel(ctx context.Context, courseID, actorID int64, reason string) (*model.Course, error) {
	return s.transition(ctx, courseID, actorID, model.CourseStatusCancelled, reason)
}

// Complete marks a confirmed course as done once its end time has passed and
// moves the hours into the student's completed tally. Teacher only.
func (s *CourseService) Complete(ctx context.Context, courseID, actorID int64) (*model.Course, error) {
	return s.transition(ctx, courseID, actorID, model.CourseStatusCompleted, "")
}

// Transition dispatches a requested status change to the matching operation.
// The HTTP PATCH handler funnels through here.
func (s *CourseService) Transition(ctx context.Context, courseID, actorID int64, target model.CourseStatus, reason string) (*model.Course, error) {
	if !model.ValidStatus(target) {
		return nil, apperr.Validationf("unknown status %q", target)
	}
	if target == model.CourseStatusPending {
		return nil, apperr.InvalidTransitionf("no transition leads back to pending")
	}
	return s.transition(ctx, courseID, actorID, target, reason)
}

func (s *CourseService) transition(ctx context.Context, courseID, actorID int64, target model.CourseStatus, reason string) (*model.Course, error) {
	var out *model.Course
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.load(ctx, courseID)
		if err != nil {
			return err
		}
		if !c.IsParty(actorID) {
			return apperr.Authorizationf("user %d is not a party of course %d", actorID, courseID)
		}
		if !c.CanTransitionTo(target) {
			return apperr.InvalidTransitionf("course %d cannot move from %s to %s", courseID, c.Status, target)
		}

		switch target {
		case model.CourseStatusConfirmed:
			if actorID != c.TeacherID {
				return apperr.Authorizationf("only the assigned teacher may confirm course %d", courseID)
			}

		case model.CourseStatusCompleted:
			if actorID != c.TeacherID {
				return apperr.Authorizationf("only the assigned teacher may complete course %d", courseID)
			}
			if s.now().Before(c.EndTime) {
				return apperr.InvalidTransitionf("course %d has not ended yet", courseID)
			}
			if _, err := s.ledger.MarkCompleted(ctx, c.StudentID, c.Hours()); err != nil {
				return err
			}

		case model.CourseStatusCancelled:
			if _, err := s.ledger.Credit(ctx, c.StudentID, s.refundHours(c)); err != nil {
				return err
			}
		}

		c.Status = target
		if err := s.store.Courses().Update(ctx, c); err != nil {
			return apperr.Internal(err, "update course")
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("course transitioned",
		zap.Int64("course_id", courseID),
		zap.Int64("actor_id", actorID),
		zap.String("status", string(target)),
		zap.String("reason", reason),
	)

	return out, nil
}

// refundHours is the cancellation refund policy: always the full duration,
// no matter how close to the start the cancellation lands.
func (s *CourseService) refundHours(c *model.Course) float64 {
	return c.Hours()
}

// AttachFeedback attaches the teacher's feedback record to a completed
// course.
func (s *CourseService) AttachFeedback(ctx context.Context, courseID, actorID int64, content string) (*model.Course, error) {
	return s.attach(ctx, courseID, actorID, content, func(c *model.Course) error {
		if actorID != c.TeacherID {
			return apperr.Authorizationf("only the assigned teacher may leave feedback on course %d", courseID)
		}
		c.Feedback = &model.Feedback{AuthorID: actorID, Content: content, CreatedAt: s.now()}
		return nil
	})
}

// AttachHomework attaches the student's homework submission to a completed
// course.
func (s *CourseService) AttachHomework(ctx context.Context, courseID, actorID int64, content string) (*model.Course, error) {
	return s.attach(ctx, courseID, actorID, content, func(c *model.Course) error {
		if actorID != c.StudentID {
			return apperr.Authorizationf("only the student may submit homework on course %d", courseID)
		}
		c.Homework = &model.HomeworkSubmission{AuthorID: actorID, Content: content, CreatedAt: s.now()}
		return nil
	})
}

func (s *CourseService) attach(ctx context.Context, courseID, actorID int64, content string, set func(*model.Course) error) (*model.Course, error) {
	if content == "" {
		return nil, apperr.Validationf("content must not be empty")
	}

	var out *model.Course
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.load(ctx, courseID)
		if err != nil {
			return err
		}
		if !c.IsParty(actorID) {
			return apperr.Authorizationf("user %d is not a party of course %d", actorID, courseID)
		}
		if c.Status != model.CourseStatusCompleted {
			return apperr.InvalidTransitionf("course %d is %s, records attach to completed courses only", courseID, c.Status)
		}
		if err := set(c); err != nil {
			return err
		}
		if err := s.store.Courses().Update(ctx, c); err != nil {
			return apperr.Internal(err, "update course")
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CourseService) load(ctx context.Context, courseID int64) (*model.Course, error) {
	c, err := s.store.Courses().GetByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal(err, "load course")
	}
	if c == nil {
		return nil, apperr.NotFoundf("course %d not found", courseID)
	}
	return c, nil
}

func (s *CourseService) requireAdmin(ctx context.Context, actorID int64) error {
	u, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return apperr.Internal(err, "load user")
	}
	if u == nil || !u.IsAdmin() {
		return apperr.Authorizationf("user %d may not access this course", actorID)
	}
	return nil
}
