package service

import (
	"context"
	"sort"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/repository"
	"go.uber.org/zap"
)

// WindowParams describes a window to declare. Recurring windows use Weekday;
// one-off windows use Date.
type WindowParams struct {
	IsRecurring bool
	Weekday     time.Weekday
	Date        time.Time
	StartMinute int
	EndMinute   int
}

// AvailabilityService manages declared availability windows and expands them
// into dated occurrences.
type AvailabilityService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewAvailabilityService(store repository.Store, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{store: store, logger: logger}
}

// AddWindow validates and persists a new window for the owner. A window that
// overlaps an existing window of the same owner on the same weekday or date
// is rejected.
func (s *AvailabilityService) AddWindow(ctx context.Context, ownerID int64, params WindowParams) (*model.TimeWindow, error) {
	w, err := buildWindow(ownerID, params)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.Windows().GetByOwnerID(ctx, ownerID)
		if err != nil {
			return apperr.Internal(err, "load windows")
		}
		for _, other := range existing {
			if windowsConflict(w, other) {
				return apperr.Validationf("window %s conflicts with existing window %d (%s)",
					w.Range(), other.ID, other.Range())
			}
		}
		if err := s.store.Windows().Create(ctx, w); err != nil {
			return apperr.Internal(err, "create window")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability window added",
		zap.Int64("window_id", w.ID),
		zap.Int64("owner_id", ownerID),
		zap.Bool("recurring", w.IsRecurring),
	)

	return w, nil
}

// RemoveWindow deletes the owner's window. Removing an absent window is a
// NotFound error, never a crash, so repeated removals are safe.
func (s *AvailabilityService) RemoveWindow(ctx context.Context, ownerID, windowID int64) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.store.Windows().GetByID(ctx, windowID)
		if err != nil {
			return apperr.Internal(err, "load window")
		}
		if w == nil || w.OwnerID != ownerID {
			return apperr.NotFoundf("window %d not found", windowID)
		}
		if err := s.store.Windows().Delete(ctx, windowID); err != nil {
			return apperr.Internal(err, "delete window")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("availability window removed",
		zap.Int64("window_id", windowID),
		zap.Int64("owner_id", ownerID),
	)

	return nil
}

// ReplaceWindows swaps the owner's whole declared availability in one
// transaction. Windows have no update-in-place, so a bulk edit is a delete
// plus recreate.
func (s *AvailabilityService) ReplaceWindows(ctx context.Context, ownerID int64, params []WindowParams) ([]*model.TimeWindow, error) {
	windows := make([]*model.TimeWindow, 0, len(params))
	for _, p := range params {
		w, err := buildWindow(ownerID, p)
		if err != nil {
			return nil, err
		}
		for _, other := range windows {
			if windowsConflict(w, other) {
				return nil, apperr.Validationf("windows %s and %s conflict", w.Range(), other.Range())
			}
		}
		windows = append(windows, w)
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.Windows().GetByOwnerID(ctx, ownerID)
		if err != nil {
			return apperr.Internal(err, "load windows")
		}
		for _, old := range existing {
			if err := s.store.Windows().Delete(ctx, old.ID); err != nil {
				return apperr.Internal(err, "delete window")
			}
		}
		for _, w := range windows {
			if err := s.store.Windows().Create(ctx, w); err != nil {
				return apperr.Internal(err, "create window")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability replaced",
		zap.Int64("owner_id", ownerID),
		zap.Int("window_count", len(windows)),
	)

	return windows, nil
}

// WindowsByOwner returns the owner's declared windows.
func (s *AvailabilityService) WindowsByOwner(ctx context.Context, ownerID int64) ([]*model.TimeWindow, error) {
	windows, err := s.store.Windows().GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, "load windows")
	}
	return windows, nil
}

// ListWindows expands the owner's windows into concrete occurrences over
// [from, to). Recurring windows yield one occurrence per matching weekday;
// one-off windows appear only when their date is in range.
func (s *AvailabilityService) ListWindows(ctx context.Context, ownerID int64, from, to time.Time) ([]model.WindowOccurrence, error) {
	windows, err := s.store.Windows().GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal(err, "load windows")
	}

	start := model.DateOf(from)
	end := model.DateOf(to)

	var out []model.WindowOccurrence
	for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
		for _, w := range windows {
			if w.AppliesTo(date) {
				out = append(out, w.OccurrenceOn(date))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartMinute != out[j].StartMinute {
			return out[i].StartMinute < out[j].StartMinute
		}
		return out[i].WindowID < out[j].WindowID
	})

	return out, nil
}

func buildWindow(ownerID int64, params WindowParams) (*model.TimeWindow, error) {
	if params.StartMinute < 0 || params.EndMinute > model.MinutesPerDay {
		return nil, apperr.Validationf("window times must fall within one day")
	}
	if params.StartMinute >= params.EndMinute {
		return nil, apperr.Validationf("window start %s must be before end %s",
			model.FormatMinute(params.StartMinute), model.FormatMinute(params.EndMinute))
	}

	w := &model.TimeWindow{
		OwnerID:     ownerID,
		StartMinute: params.StartMinute,
		EndMinute:   params.EndMinute,
		IsRecurring: params.IsRecurring,
	}
	if params.IsRecurring {
		if params.Weekday < time.Sunday || params.Weekday > time.Saturday {
			return nil, apperr.Validationf("invalid weekday %d", params.Weekday)
		}
		w.Weekday = params.Weekday
	} else {
		if params.Date.IsZero() {
			return nil, apperr.Validationf("one-off window requires a date")
		}
		w.SpecificDate = model.DateOf(params.Date)
		w.Weekday = w.SpecificDate.Weekday()
	}
	return w, nil
}

// windowsConflict reports whether two windows of one owner can produce
// overlapping occurrences on some date. Recurring windows clash per weekday;
// a recurring window also clashes with a one-off falling on its weekday.
func windowsConflict(a, b *model.TimeWindow) bool {
	if !a.Range().Overlaps(b.Range()) {
		return false
	}
	switch {
	case a.IsRecurring && b.IsRecurring:
		return a.Weekday == b.Weekday
	case !a.IsRecurring && !b.IsRecurring:
		return model.SameDate(a.SpecificDate, b.SpecificDate)
	case a.IsRecurring:
		return b.SpecificDate.Weekday() == a.Weekday
	default:
		return a.SpecificDate.Weekday() == b.Weekday
	}
}
