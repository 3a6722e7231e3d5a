package service

import (
	"context"
	"testing"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchingSlots_Intersection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.addUser(t, "teacher1", model.RoleTeacher)
	student := env.addUser(t, "student1", model.RoleStudent)

	// Teacher Mondays 09:00-12:00, student Mondays 10:00-14:00.
	env.addRecurringWindow(t, teacher, time.Monday, 9*60, 12*60)
	env.addRecurringWindow(t, student, time.Monday, 10*60, 14*60)

	days, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 7)
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, testMonday, days[0].Date)
	assert.Equal(t, []model.TimeRange{tr(10*60, 12*60)}, days[0].Slots)
}

func TestMatchingSlots_ConflictExclusion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.addUser(t, "teacher1", model.RoleTeacher)
	student := env.addUser(t, "student1", model.RoleStudent)
	other := env.addUser(t, "student2", model.RoleStudent)

	env.addRecurringWindow(t, teacher, time.Monday, 9*60, 12*60)
	env.addRecurringWindow(t, student, time.Monday, 10*60, 14*60)

	// A confirmed course holds the teacher 10:00-11:00 on that Monday.
	busy := &model.Course{
		StudentID: other,
		TeacherID: teacher,
		StartTime: testMonday.Add(10 * time.Hour),
		EndTime:   testMonday.Add(11 * time.Hour),
		Status:    model.CourseStatusConfirmed,
		Type:      model.CourseTypeOnline,
	}
	require.NoError(t, env.store.Courses().Create(ctx, busy))

	days, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 7)
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, []model.TimeRange{tr(11*60, 12*60)}, days[0].Slots)
}

func TestMatchingSlots_StudentConflictAlsoExcluded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.addUser(t, "teacher1", model.RoleTeacher)
	student := env.addUser(t, "student1", model.RoleStudent)
	otherTeacher := env.addUser(t, "teacher2", model.RoleTeacher)

	env.addRecurringWindow(t, teacher, time.Monday, 9*60, 12*60)
	env.addRecurringWindow(t, student, time.Monday, 9*60, 12*60)

	// The student already has a pending course with another teacher.
	busy := &model.Course{
		StudentID: student,
		TeacherID: otherTeacher,
		StartTime: testMonday.Add(9 * time.Hour),
		EndTime:   testMonday.Add(10 * time.Hour),
		Status:    model.CourseStatusPending,
		Type:      model.CourseTypeOnline,
	}
	require.NoError(t, env.store.Courses().Create(ctx, busy))

	days, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 7)
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, []model.TimeRange{tr(10*60, 12*60)}, days[0].Slots)
}

func TestMatchingSlots_CancelledCoursesDoNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.addUser(t, "teacher1", model.RoleTeacher)
	student := env.addUser(t, "student1", model.RoleStudent)

	env.addRecurringWindow(t, teacher, time.Monday, 9*60, 12*60)
	env.addRecurringWindow(t, student, time.Monday, 9*60, 12*60)

	cancelled := &model.Course{
		StudentID: student,
		TeacherID: teacher,
		StartTime: testMonday.Add(9 * time.Hour),
		EndTime:   testMonday.Add(12 * time.Hour),
		Status:    model.CourseStatusCancelled,
		Type:      model.CourseTypeOnline,
	}
	require.NoError(t, env.store.Courses().Create(ctx, cancelled))

	days, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 7)
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.Equal(t, []model.TimeRange{tr(9*60, 12*60)}, days[0].Slots)
}

func TestMatchingSlots_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.addUser(t, "teacher1", model.RoleTeacher)
	student := env.addUser(t, "student1", model.RoleStudent)

	env.addRecurringWindow(t, teacher, time.Monday, 9*60, 12*60)
	env.addRecurringWindow(t, teacher, time.Wednesday, 9*60, 12*60)
	env.addRecurringWindow(t, student, time.Monday, 10*60, 14*60)
	env.addRecurringWindow(t, student, time.Wednesday, 8*60, 11*60)

	first, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 21)
	require.NoError(t, err)
	second, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 21)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Dates strictly ascending, slots strictly ascending per day.
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Date.Before(first[i].Date))
	}
	for _, day := range first {
		for i := 1; i < len(day.Slots); i++ {
			assert.Less(t, day.Slots[i-1].StartMinute, day.Slots[i].StartMinute)
		}
	}
}

func TestMatchingSlots_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("horizon must be positive", func(t *testing.T) {
		_, err := env.matcher.MatchingSlots(ctx, 1, 2, testNow, 0)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("horizon is bounded", func(t *testing.T) {
		_, err := env.matcher.MatchingSlots(ctx, 1, 2, testNow, MaxHorizonDays+1)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("parties must differ", func(t *testing.T) {
		_, err := env.matcher.MatchingSlots(ctx, 1, 1, testNow, 7)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestMatchingSlots_NoCommonTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	teacher := env.addUser(t, "teacher1", model.RoleTeacher)
	student := env.addUser(t, "student1", model.RoleStudent)

	env.addRecurringWindow(t, teacher, time.Monday, 9*60, 10*60)
	env.addRecurringWindow(t, student, time.Monday, 10*60, 11*60)

	days, err := env.matcher.MatchingSlots(ctx, teacher, student, testNow, 7)
	require.NoError(t, err)
	assert.Empty(t, days)
}
