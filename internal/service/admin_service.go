package service

import (
	"context"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
	"go.uber.org/zap"
)

// AdminCourseParams describes an administratively managed course.
type AdminCourseParams struct {
	StudentID   int64
	TeacherID   int64
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Status      model.CourseStatus
	Type        model.CourseType
	MeetingLink string
	Location    string
	Notes       string
}

// AdminService is the administrative override of the normal lifecycle.
// Admin-created courses skip slot re-validation and may start directly in
// confirmed, matching the observed platform behavior; structural invariants
// still hold. Admin course mutations never touch the hours ledger.
type AdminService struct {
	store  repository.Store
	ledger *LedgerService
	logger *zap.Logger
}

func NewAdminService(store repository.Store, ledger *LedgerService, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, ledger: ledger, logger: logger}
}

// CreateCourse creates a course directly, bypassing availability matching.
func (s *AdminService) CreateCourse(ctx context.Context, actorID int64, params AdminCourseParams) (*model.Course, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validateCourseParams(params); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = model.CourseStatusConfirmed
	}
	if !model.ValidStatus(status) {
		return nil, apperr.Validationf("unknown status %q", status)
	}

	course := &model.Course{
		StudentID:   params.StudentID,
		TeacherID:   params.TeacherID,
		Title:       params.Title,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Status:      status,
		Type:        params.Type,
		MeetingLink: params.MeetingLink,
		Location:    params.Location,
		Notes:       params.Notes,
	}

	if err := s.store.Courses().Create(ctx, course); err != nil {
		return nil, apperr.Internal(err, "create course")
	}

	s.logger.Info("course created by admin",
		zap.Int64("course_id", course.ID),
		zap.Int64("admin_id", actorID),
		zap.String("status", string(status)),
	)

	return course, nil
}

// UpdateCourse rewrites a course's mutable fields. Student, teacher and id
// stay immutable.
func (s *AdminService) UpdateCourse(ctx context.Context, actorID, courseID int64, params AdminCourseParams) (*model.Course, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if err := validateCourseParams(params); err != nil {
		return nil, err
	}
	if params.Status != "" && !model.ValidStatus(params.Status) {
		return nil, apperr.Validationf("unknown status %q", params.Status)
	}

	var out *model.Course
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.store.Courses().GetByID(ctx, courseID)
		if err != nil {
			return apperr.Internal(err, "load course")
		}
		if c == nil {
			return apperr.NotFoundf("course %d not found", courseID)
		}

		c.Title = params.Title
		c.StartTime = params.StartTime
		c.EndTime = params.EndTime
		c.Type = params.Type
		c.MeetingLink = params.MeetingLink
		c.Location = params.Location
		c.Notes = params.Notes
		if params.Status != "" {
			c.Status = params.Status
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

	s.logger.Info("course updated by admin",
		zap.Int64("course_id", courseID),
		zap.Int64("admin_id", actorID),
	)

	return out, nil
}

// DeleteCourse hard-deletes a course row. The normal lifecycle never
// deletes; this exists only on the admin surface.
func (s *AdminService) DeleteCourse(ctx context.Context, actorID, courseID int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.store.Courses().GetByID(ctx, courseID)
		if err != nil {
			return apperr.Internal(err, "load course")
		}
		if c == nil {
			return apperr.NotFoundf("course %d not found", courseID)
		}
		if err := s.store.Courses().Delete(ctx, courseID); err != nil {
			return apperr.Internal(err, "delete course")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("course deleted by admin",
		zap.Int64("course_id", courseID),
		zap.Int64("admin_id", actorID),
	)

	return nil
}

// CreditHours is an administrative top-up of a student's remaining hours.
func (s *AdminService) CreditHours(ctx context.Context, actorID, studentID int64, hours float64) (*model.StudentLedger, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.ledger.Credit(ctx, studentID, hours)
}

func (s *AdminService) requireAdmin(ctx context.Context, actorID int64) error {
	u, err := s.store.Users().GetByID(ctx, actorID)
	if err != nil {
		return apperr.Internal(err, "load user")
	}
	if u == nil || !u.IsAdmin() {
		return apperr.Authorizationf("user %d is not an administrator", actorID)
	}
	return nil
}

func validateCourseParams(params AdminCourseParams) error {
	if params.StudentID == 0 || params.TeacherID == 0 {
		return apperr.Validationf("student and teacher are required")
	}
	if params.StudentID == params.TeacherID {
		return apperr.Validationf("teacher and student must differ")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() || !params.StartTime.Before(params.EndTime) {
		return apperr.Validationf("course start must be before end")
	}
	return validateTypeFields(params.Type, params.MeetingLink, params.Location)
}
