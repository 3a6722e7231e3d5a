// Package repository defines the storage contracts the scheduling services
// depend on. Implementations live in the postgres and memory subpackages.
package repository

import (
	"context"
	"time"

	"github.com/classhour/backend/internal/model"
)

// WindowRepository stores availability windows. Windows are created and
// deleted, never updated in place.
type WindowRepository interface {
	Create(ctx context.Context, w *model.TimeWindow) error
	GetByID(ctx context.Context, id int64) (*model.TimeWindow, error)
	GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.TimeWindow, error)
	Delete(ctx context.Context, id int64) error
}

// CourseRepository stores courses and their attached records.
type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int64) error
	GetByTeacherID(ctx context.Context, teacherID int64, status *model.CourseStatus) ([]*model.Course, error)
	GetByStudentID(ctx context.Context, studentID int64, status *model.CourseStatus) ([]*model.Course, error)
	// GetActiveInRange returns pending and confirmed courses where the user
	// is either party and the course interval overlaps [from, to).
	GetActiveInRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Course, error)
}

// LedgerRepository stores per-student hour balances.
type LedgerRepository interface {
	// Get returns nil (no error) when the student has no ledger row yet.
	Get(ctx context.Context, studentID int64) (*model.StudentLedger, error)
	Upsert(ctx context.Context, l *model.StudentLedger) error
}

// UserRepository stores platform users.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Store aggregates the repositories and provides transaction scoping.
// Everything executed inside the WithinTx callback is applied atomically:
// if fn returns an error nothing is persisted.
type Store interface {
	Windows() WindowRepository
	Courses() CourseRepository
	Ledgers() LedgerRepository
	Users() UserRepository
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
