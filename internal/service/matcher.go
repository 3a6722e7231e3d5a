package service

import (
	"context"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
	"go.uber.org/zap"
)

// MaxHorizonDays bounds how far ahead the matcher expands windows, keeping
// the computation proportional to the number of occurrences.
const MaxHorizonDays = 365

// Matcher derives bookable slots by intersecting a teacher's and a student's
// expanded availability and excluding time already held by active courses.
type Matcher struct {
	store  repository.Store
	avail  *AvailabilityService
	logger *zap.Logger
}

func NewMatcher(store repository.Store, avail *AvailabilityService, logger *zap.Logger) *Matcher {
	return &Matcher{store: store, avail: avail, logger: logger}
}

// MatchingSlots computes, for every date in [from, from+horizonDays), the
// time ranges where both parties are available and neither has a pending or
// confirmed course. Output is ordered by date, slots by start time, and is
// deterministic for fixed inputs.
func (m *Matcher) MatchingSlots(ctx context.Context, teacherID, studentID int64, from time.Time, horizonDays int) ([]model.DayAvailability, error) {
	if horizonDays <= 0 || horizonDays > MaxHorizonDays {
		return nil, apperr.Validationf("horizon must be between 1 and %d days", MaxHorizonDays)
	}
	if teacherID == studentID {
		return nil, apperr.Validationf("teacher and student must differ")
	}

	start := model.DateOf(from)
	end := start.AddDate(0, 0, horizonDays)

	teacherOcc, err := m.avail.ListWindows(ctx, teacherID, start, end)
	if err != nil {
		return nil, err
	}
	studentOcc, err := m.avail.ListWindows(ctx, studentID, start, end)
	if err != nil {
		return nil, err
	}

	busy, err := m.busyByDate(ctx, teacherID, studentID, start, end)
	if err != nil {
		return nil, err
	}

	teacherByDate := occurrencesByDate(teacherOcc)
	studentByDate := occurrencesByDate(studentOcc)

	var out []model.DayAvailability
	for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
		key := date.Format(time.DateOnly)
		tRanges := teacherByDate[key]
		sRanges := studentByDate[key]
		if len(tRanges) == 0 || len(sRanges) == 0 {
			continue
		}

		var candidates []model.TimeRange
		for _, tr := range tRanges {
			for _, sr := range sRanges {
				if slot, ok := intersect(tr, sr); ok {
					candidates = append(candidates, slot)
				}
			}
		}

		slots := normalize(subtractAll(normalize(candidates), busy[key]))
		if len(slots) == 0 {
			continue
		}

		out = append(out, model.DayAvailability{Date: date, Slots: slots})
	}

	return out, nil
}

// busyByDate collects the day ranges of both parties' active courses keyed
// by calendar date.
func (m *Matcher) busyByDate(ctx context.Context, teacherID, studentID int64, from, to time.Time) (map[string][]model.TimeRange, error) {
	busy := make(map[string][]model.TimeRange)
	for _, userID := range []int64{teacherID, studentID} {
		courses, err := m.store.Courses().GetActiveInRange(ctx, userID, from, to)
		if err != nil {
			return nil, apperr.Internal(err, "load active courses")
		}
		for _, c := range courses {
			key := model.DateOf(c.StartTime).Format(time.DateOnly)
			busy[key] = append(busy[key], c.DayRange())
		}
	}
	return busy, nil
}

func occurrencesByDate(occ []model.WindowOccurrence) map[string][]model.TimeRange {
	byDate := make(map[string][]model.TimeRange)
	for _, o := range occ {
		key := o.Date.Format(time.DateOnly)
		byDate[key] = append(byDate[key], model.TimeRange{StartMinute: o.StartMinute, EndMinute: o.EndMinute})
	}
	return byDate
}
