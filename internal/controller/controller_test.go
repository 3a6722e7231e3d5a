package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository/memory"
	"github.com/classhour/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
	avail   *service.AvailabilityService
	ledger  *service.LedgerService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	avail := service.NewAvailabilityService(store, logger)
	matcher := service.NewMatcher(store, avail, logger)
	ledger := service.NewLedgerService(store, logger)
	courses := service.NewCourseService(store, ledger, logger)
	booking := service.NewBookingService(store, matcher, ledger, logger)
	admin := service.NewAdminService(store, ledger, logger)

	ctrl := New(avail, matcher, courses, booking, ledger, admin, logger)
	return &testServer{
		handler: ctrl.Router(),
		store:   store,
		avail:   avail,
		ledger:  ledger,
	}
}

func (s *testServer) addUser(t *testing.T, username string, role model.Role) int64 {
	t.Helper()
	u := &model.User{Username: username, Role: role, IsActive: true}
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	return u.ID
}

// do sends a JSON request as the given actor and returns the recorder.
func (s *testServer) do(t *testing.T, method, path string, actor int64, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != 0 {
		req.Header.Set(actorHeader, fmt.Sprintf("%d", actor))
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// nextBookableMonday returns a Monday between 7 and 13 days ahead, so its
// morning slots are always in the future when the suite runs.
func nextBookableMonday() time.Time {
	d := model.DateOf(time.Now().UTC().AddDate(0, 0, 7))
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestAvailabilityEndpoints(t *testing.T) {
	srv := newTestServer(t)
	teacher := srv.addUser(t, "teacher1", model.RoleTeacher)
	base := fmt.Sprintf("/api/users/%d/availability", teacher)

	t.Run("add recurring window", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, base, teacher, map[string]any{
			"is_recurring": true,
			"weekday":      int(time.Monday),
			"start":        "09:00",
			"end":          "12:00",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		w := decodeBody[model.TimeWindow](t, rec)
		assert.Equal(t, teacher, w.OwnerID)
		assert.Equal(t, 9*60, w.StartMinute)
	})

	t.Run("overlapping window maps to 400", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, base, teacher, map[string]any{
			"is_recurring": true,
			"weekday":      int(time.Monday),
			"start":        "10:00",
			"end":          "13:00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("other user may not edit", func(t *testing.T) {
		other := srv.addUser(t, "intruder", model.RoleStudent)
		rec := srv.do(t, http.MethodPost, base, other, map[string]any{
			"is_recurring": true,
			"weekday":      int(time.Tuesday),
			"start":        "09:00",
			"end":          "10:00",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing identity header maps to 403", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, base, 0, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete unknown window maps to 404", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, base+"/9999", teacher, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMatchingAvailabilityEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	teacher := srv.addUser(t, "teacher1", model.RoleTeacher)
	student := srv.addUser(t, "student1", model.RoleStudent)

	for _, owner := range []int64{teacher, student} {
		_, err := srv.avail.AddWindow(ctx, owner, service.WindowParams{
			IsRecurring: true,
			Weekday:     time.Monday,
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		})
		require.NoError(t, err)
	}

	t.Run("returns shared slots", func(t *testing.T) {
		path := fmt.Sprintf("/api/students/%d/matching-availability?teacher_id=%d", student, teacher)
		rec := srv.do(t, http.MethodGet, path, student, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		days := decodeBody[[]dayAvailabilityResponse](t, rec)
		require.NotEmpty(t, days)
		assert.Equal(t, []slotResponse{{Start: "10:00", End: "12:00"}}, days[0].Slots)
	})

	t.Run("requires teacher_id", func(t *testing.T) {
		path := fmt.Sprintf("/api/students/%d/matching-availability", student)
		rec := srv.do(t, http.MethodGet, path, student, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("only the student may ask", func(t *testing.T) {
		path := fmt.Sprintf("/api/students/%d/matching-availability?teacher_id=%d", student, teacher)
		rec := srv.do(t, http.MethodGet, path, teacher, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestBookingEndpoint(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	admin := srv.addUser(t, "admin", model.RoleAdmin)
	teacher := srv.addUser(t, "teacher1", model.RoleTeacher)
	student := srv.addUser(t, "student1", model.RoleStudent)

	for _, owner := range []int64{teacher, student} {
		_, err := srv.avail.AddWindow(ctx, owner, service.WindowParams{
			IsRecurring: true,
			Weekday:     time.Monday,
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		})
		require.NoError(t, err)
	}

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/admin/students/%d/credit", student), admin,
		map[string]any{"hours": 10})
	require.Equal(t, http.StatusOK, rec.Code)

	monday := nextBookableMonday()
	bookBody := map[string]any{
		"teacher_id":   teacher,
		"date":         monday.Format(time.DateOnly),
		"start":        "10:00",
		"end":          "12:00",
		"course_type":  "online",
		"meeting_link": "https://meet.example.com/lesson",
	}

	t.Run("books and debits", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/courses", student, bookBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		course := decodeBody[model.Course](t, rec)
		assert.Equal(t, model.CourseStatusPending, course.Status)

		ledgerRec := srv.do(t, http.MethodGet, fmt.Sprintf("/api/students/%d/ledger", student), student, nil)
		require.Equal(t, http.StatusOK, ledgerRec.Code)
		l := decodeBody[model.StudentLedger](t, ledgerRec)
		assert.Equal(t, 8.0, l.RemainingHours)
	})

	t.Run("taken slot maps to 409", func(t *testing.T) {
		rival := srv.addUser(t, "student2", model.RoleStudent)
		_, err := srv.avail.AddWindow(ctx, rival, service.WindowParams{
			IsRecurring: true,
			Weekday:     time.Monday,
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		})
		require.NoError(t, err)
		_, err = srv.ledger.Credit(ctx, rival, 10)
		require.NoError(t, err)

		rec := srv.do(t, http.MethodPost, "/api/courses", rival, bookBody)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("empty balance maps to 422", func(t *testing.T) {
		broke := srv.addUser(t, "student3", model.RoleStudent)
		_, err := srv.avail.AddWindow(ctx, broke, service.WindowParams{
			IsRecurring: true,
			Weekday:     time.Tuesday,
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		})
		require.NoError(t, err)
		// Teacher has no Tuesday window either, so extend it first.
		_, err = srv.avail.AddWindow(ctx, teacher, service.WindowParams{
			IsRecurring: true,
			Weekday:     time.Tuesday,
			StartMinute: 10 * 60,
			EndMinute:   12 * 60,
		})
		require.NoError(t, err)

		body := map[string]any{
			"teacher_id":   teacher,
			"date":         monday.AddDate(0, 0, 1).Format(time.DateOnly),
			"start":        "10:00",
			"end":          "11:00",
			"course_type":  "online",
			"meeting_link": "https://meet.example.com/lesson",
		}
		rec := srv.do(t, http.MethodPost, "/api/courses", broke, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/courses", student, map[string]any{
			"teacher_id":  teacher,
			"date":        "not-a-date",
			"start":       "10:00",
			"end":         "11:00",
			"course_type": "online",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCourseLifecycleEndpoints(t *testing.T) {
	srv := newTestServer(t)

	admin := srv.addUser(t, "admin", model.RoleAdmin)
	teacher := srv.addUser(t, "teacher1", model.RoleTeacher)
	student := srv.addUser(t, "student1", model.RoleStudent)

	// Seed a pending course directly through the admin surface.
	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	createRec := srv.do(t, http.MethodPost, "/api/admin/courses", admin, map[string]any{
		"student_id":   student,
		"teacher_id":   teacher,
		"start_time":   start.Format(time.RFC3339),
		"end_time":     start.Add(time.Hour).Format(time.RFC3339),
		"status":       "pending",
		"course_type":  "online",
		"meeting_link": "https://meet.example.com/lesson",
	})
	require.Equal(t, http.StatusCreated, createRec.Code)
	course := decodeBody[model.Course](t, createRec)

	t.Run("teacher confirms via PATCH", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, fmt.Sprintf("/api/courses/%d", course.ID), teacher,
			map[string]any{"status": "confirmed"})
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[model.Course](t, rec)
		assert.Equal(t, model.CourseStatusConfirmed, got.Status)
	})

	t.Run("student cannot confirm", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, fmt.Sprintf("/api/courses/%d", course.ID), student,
			map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("premature completion maps to 409", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, fmt.Sprintf("/api/courses/%d", course.ID), teacher,
			map[string]any{"status": "completed"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("student cancels", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/courses/%d/cancel", course.ID), student,
			map[string]any{"reason": "conflict"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		outsider := srv.addUser(t, "bystander", model.RoleStudent)
		rec := srv.do(t, http.MethodGet, fmt.Sprintf("/api/courses/%d", course.ID), outsider, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown course maps to 404", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/courses/99999", teacher, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	srv := newTestServer(t)
	student := srv.addUser(t, "student1", model.RoleStudent)

	rec := srv.do(t, http.MethodPost, fmt.Sprintf("/api/admin/students/%d/credit", student), student,
		map[string]any{"hours": 100})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
