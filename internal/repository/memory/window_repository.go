package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/classhour/backend/internal/model"
)

type windowRepo struct {
	s *Store
}

func (r *windowRepo) Create(ctx context.Context, w *model.TimeWindow) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	r.s.nextWindowID++
	w.ID = r.s.nextWindowID
	if w.CreatedAt.IsZero() {
		w.CreatedAt = nowUTC()
	}
	r.s.windows[w.ID] = cloneWindow(w)
	return nil
}

func (r *windowRepo) GetByID(ctx context.Context, id int64) (*model.TimeWindow, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	w, ok := r.s.windows[id]
	if !ok {
		return nil, nil
	}
	return cloneWindow(w), nil
}

func (r *windowRepo) GetByOwnerID(ctx context.Context, ownerID int64) ([]*model.TimeWindow, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	var out []*model.TimeWindow
	for _, w := range r.s.windows {
		if w.OwnerID == ownerID {
			out = append(out, cloneWindow(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *windowRepo) Delete(ctx context.Context, id int64) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.windows[id]; !ok {
		return fmt.Errorf("window %d does not exist", id)
	}
	delete(r.s.windows, id)
	return nil
}
