// Package memory is an in-memory Store implementation. It backs the test
// suite and the development mode where no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
)

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// Store holds all entities behind a single mutex. WithinTx snapshots the
// maps before running the callback and restores the snapshot when the
// callback fails, which gives the all-or-nothing semantics the services
// rely on.
type Store struct {
	mu sync.Mutex

	windows map[int64]*model.TimeWindow
	courses map[int64]*model.Course
	ledgers map[int64]*model.StudentLedger
	users   map[int64]*model.User

	nextWindowID int64
	nextCourseID int64
	nextUserID   int64
}

func NewStore() *Store {
	return &Store{
		windows: make(map[int64]*model.TimeWindow),
		courses: make(map[int64]*model.Course),
		ledgers: make(map[int64]*model.StudentLedger),
		users:   make(map[int64]*model.User),
	}
}

func (s *Store) Windows() repository.WindowRepository { return &windowRepo{s} }
func (s *Store) Courses() repository.CourseRepository { return &courseRepo{s} }
func (s *Store) Ledgers() repository.LedgerRepository { return &ledgerRepo{s} }
func (s *Store) Users() repository.UserRepository     { return &userRepo{s} }

// lock acquires the store mutex unless the context is already inside a
// transaction, which holds the mutex for its whole extent.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	windows map[int64]*model.TimeWindow
	courses map[int64]*model.Course
	ledgers map[int64]*model.StudentLedger
	users   map[int64]*model.User
	nextWindowID,
	nextCourseID,
	nextUserID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		windows:      make(map[int64]*model.TimeWindow, len(s.windows)),
		courses:      make(map[int64]*model.Course, len(s.courses)),
		ledgers:      make(map[int64]*model.StudentLedger, len(s.ledgers)),
		users:        make(map[int64]*model.User, len(s.users)),
		nextWindowID: s.nextWindowID,
		nextCourseID: s.nextCourseID,
		nextUserID:   s.nextUserID,
	}
	for id, w := range s.windows {
		snap.windows[id] = cloneWindow(w)
	}
	for id, c := range s.courses {
		snap.courses[id] = cloneCourse(c)
	}
	for id, l := range s.ledgers {
		snap.ledgers[id] = cloneLedger(l)
	}
	for id, u := range s.users {
		cp := *u
		snap.users[id] = &cp
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.windows = snap.windows
	s.courses = snap.courses
	s.ledgers = snap.ledgers
	s.users = snap.users
	s.nextWindowID = snap.nextWindowID
	s.nextCourseID = snap.nextCourseID
	s.nextUserID = snap.nextUserID
}

// WithinTx runs fn with the store locked. On error the pre-transaction
// snapshot is restored so partial writes never become visible.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		// already transactional, join the outer scope
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func cloneWindow(w *model.TimeWindow) *model.TimeWindow {
	cp := *w
	return &cp
}

func cloneCourse(c *model.Course) *model.Course {
	cp := *c
	if c.Feedback != nil {
		fb := *c.Feedback
		cp.Feedback = &fb
	}
	if c.Homework != nil {
		hw := *c.Homework
		cp.Homework = &hw
	}
	return &cp
}

func cloneLedger(l *model.StudentLedger) *model.StudentLedger {
	cp := *l
	return &cp
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
