package service

import "sync"

// teacherLocks serializes booking attempts per teacher. Holding the
// teacher's lock across re-validation and commit guarantees that of two
// concurrent bookings for overlapping slots exactly one succeeds.
type teacherLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTeacherLocks() *teacherLocks {
	return &teacherLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the per-teacher mutex and returns its release func.
func (t *teacherLocks) lock(teacherID int64) func() {
	t.mu.Lock()
	m, ok := t.locks[teacherID]
	if !ok {
		m = &sync.Mutex{}
		t.locks[teacherID] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}
