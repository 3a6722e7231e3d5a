package service

import (
	"context"
	"testing"
	"time"

	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Fixed clock for the suite: Tuesday 2026-09-01 09:00 UTC. The following
// Monday is 2026-09-07.
var (
	testNow    = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	testMonday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
)

type testEnv struct {
	store   *memory.Store
	avail   *AvailabilityService
	matcher *Matcher
	ledger  *LedgerService
	courses *CourseService
	booking *BookingService
	admin   *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	avail := NewAvailabilityService(store, logger)
	matcher := NewMatcher(store, avail, logger)
	ledger := NewLedgerService(store, logger)
	courses := NewCourseService(store, ledger, logger)
	booking := NewBookingService(store, matcher, ledger, logger)
	admin := NewAdminService(store, ledger, logger)

	courses.now = func() time.Time { return testNow }
	booking.now = func() time.Time { return testNow }

	return &testEnv{
		store:   store,
		avail:   avail,
		matcher: matcher,
		ledger:  ledger,
		courses: courses,
		booking: booking,
		admin:   admin,
	}
}

func (e *testEnv) addUser(t *testing.T, username string, role model.Role) int64 {
	t.Helper()
	u := &model.User{Username: username, Role: role, IsActive: true}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u.ID
}

func (e *testEnv) addRecurringWindow(t *testing.T, ownerID int64, weekday time.Weekday, start, end int) *model.TimeWindow {
	t.Helper()
	w, err := e.avail.AddWindow(context.Background(), ownerID, WindowParams{
		IsRecurring: true,
		Weekday:     weekday,
		StartMinute: start,
		EndMinute:   end,
	})
	require.NoError(t, err)
	return w
}

func (e *testEnv) addOneOffWindow(t *testing.T, ownerID int64, date time.Time, start, end int) *model.TimeWindow {
	t.Helper()
	w, err := e.avail.AddWindow(context.Background(), ownerID, WindowParams{
		Date:        date,
		StartMinute: start,
		EndMinute:   end,
	})
	require.NoError(t, err)
	return w
}

func (e *testEnv) creditHours(t *testing.T, studentID int64, hours float64) {
	t.Helper()
	_, err := e.ledger.Credit(context.Background(), studentID, hours)
	require.NoError(t, err)
}

// bookMondaySlot books the given range on the upcoming Monday as an online
// course.
func (e *testEnv) bookMondaySlot(t *testing.T, studentID, teacherID int64, start, end int) (*model.Course, error) {
	t.Helper()
	return e.booking.BookCourse(context.Background(), BookCourseRequest{
		StudentID:   studentID,
		TeacherID:   teacherID,
		Date:        testMonday,
		Slot:        model.TimeRange{StartMinute: start, EndMinute: end},
		Type:        model.CourseTypeOnline,
		MeetingLink: "https://meet.example.com/lesson",
	})
}
