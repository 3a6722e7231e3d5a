package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/classhour/backend/internal/model"
)

type courseRepo struct {
	s *Store
}

func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	r.s.nextCourseID++
	c.ID = r.s.nextCourseID
	now := nowUTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.s.courses[c.ID] = cloneCourse(c)
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, nil
	}
	return cloneCourse(c), nil
}

func (r *courseRepo) Update(ctx context.Context, c *model.Course) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.courses[c.ID]; !ok {
		return fmt.Errorf("course %d does not exist", c.ID)
	}
	c.UpdatedAt = nowUTC()
	r.s.courses[c.ID] = cloneCourse(c)
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.courses[id]; !ok {
		return fmt.Errorf("course %d does not exist", id)
	}
	delete(r.s.courses, id)
	return nil
}

func (r *courseRepo) GetByTeacherID(ctx context.Context, teacherID int64, status *model.CourseStatus) ([]*model.Course, error) {
	return r.filter(ctx, func(c *model.Course) bool {
		return c.TeacherID == teacherID && matchStatus(c, status)
	})
}

func (r *courseRepo) GetByStudentID(ctx context.Context, studentID int64, status *model.CourseStatus) ([]*model.Course, error) {
	return r.filter(ctx, func(c *model.Course) bool {
		return c.StudentID == studentID && matchStatus(c, status)
	})
}

func (r *courseRepo) GetActiveInRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Course, error) {
	return r.filter(ctx, func(c *model.Course) bool {
		return c.IsParty(userID) && c.IsActive() &&
			c.StartTime.Before(to) && from.Before(c.EndTime)
	})
}

func (r *courseRepo) filter(ctx context.Context, keep func(*model.Course) bool) ([]*model.Course, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	var out []*model.Course
	for _, c := range r.s.courses {
		if keep(c) {
			out = append(out, cloneCourse(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matchStatus(c *model.Course, status *model.CourseStatus) bool {
	return status == nil || c.Status == *status
}
