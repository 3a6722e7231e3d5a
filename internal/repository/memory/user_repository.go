package memory

import (
	"context"

	"github.com/classhour/backend/internal/model"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	r.s.nextUserID++
	u.ID = r.s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = nowUTC()
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
