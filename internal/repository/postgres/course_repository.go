package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classhour/backend/internal/model"
	"github.com/jackc/pgx/v5"
)

type courseRepo struct {
	s *Store
}

const courseColumns = `
	id, student_id, teacher_id, title, start_time, end_time, status,
	course_type, meeting_link, location, notes,
	feedback_author_id, feedback_content, feedback_at,
	homework_author_id, homework_content, homework_at,
	created_at, updated_at
`

// Create persists a new course.
func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (student_id, teacher_id, title, start_time, end_time, status,
		                     course_type, meeting_link, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.s.db(ctx).QueryRow(
		ctx, query,
		c.StudentID,
		c.TeacherID,
		c.Title,
		c.StartTime,
		c.EndTime,
		c.Status,
		c.Type,
		c.MeetingLink,
		c.Location,
		c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID fetches a course by id, returning nil when absent.
func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(r.s.db(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return c, nil
}

// Update writes back every mutable field and refreshes updated_at.
func (r *courseRepo) Update(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, start_time = $2, end_time = $3, status = $4,
		    course_type = $5, meeting_link = $6, location = $7, notes = $8,
		    feedback_author_id = $9, feedback_content = $10, feedback_at = $11,
		    homework_author_id = $12, homework_content = $13, homework_at = $14,
		    updated_at = now()
		WHERE id = $15
		RETURNING updated_at
	`

	var (
		fbAuthor, hwAuthor   *int64
		fbContent, hwContent *string
		fbAt, hwAt           *time.Time
	)
	if c.Feedback != nil {
		fbAuthor = &c.Feedback.AuthorID
		fbContent = &c.Feedback.Content
		fbAt = &c.Feedback.CreatedAt
	}
	if c.Homework != nil {
		hwAuthor = &c.Homework.AuthorID
		hwContent = &c.Homework.Content
		hwAt = &c.Homework.CreatedAt
	}

	err := r.s.db(ctx).QueryRow(
		ctx, query,
		c.Title, c.StartTime, c.EndTime, c.Status,
		c.Type, c.MeetingLink, c.Location, c.Notes,
		fbAuthor, fbContent, fbAt,
		hwAuthor, hwContent, hwAt,
		c.ID,
	).Scan(&c.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("course %d does not exist", c.ID)
		}
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

// Delete removes a course row. Only the administrative surface uses this.
func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM courses WHERE id = $1`

	tag, err := r.s.db(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("course %d does not exist", id)
	}

	return nil
}

// GetByTeacherID fetches a teacher's courses, optionally filtered by status.
func (r *courseRepo) GetByTeacherID(ctx context.Context, teacherID int64, status *model.CourseStatus) ([]*model.Course, error) {
	return r.list(ctx, `teacher_id = $1`, teacherID, status)
}

// GetByStudentID fetches a student's courses, optionally filtered by status.
func (r *courseRepo) GetByStudentID(ctx context.Context, studentID int64, status *model.CourseStatus) ([]*model.Course, error) {
	return r.list(ctx, `student_id = $1`, studentID, status)
}

func (r *courseRepo) list(ctx context.Context, partyClause string, partyID int64, status *model.CourseStatus) ([]*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE ` + partyClause
	args := []any{partyID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY start_time, id`

	return r.queryCourses(ctx, query, args...)
}

// GetActiveInRange returns pending and confirmed courses where the user is
// either party and the interval overlaps [from, to).
func (r *courseRepo) GetActiveInRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Course, error) {
	query := `SELECT ` + courseColumns + `
		FROM courses
		WHERE (student_id = $1 OR teacher_id = $1)
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time, id
	`

	return r.queryCourses(ctx, query, userID, from, to)
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...any) ([]*model.Course, error) {
	rows, err := r.s.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	var (
		c                    model.Course
		fbAuthor, hwAuthor   *int64
		fbContent, hwContent *string
		fbAt, hwAt           *time.Time
	)

	err := row.Scan(
		&c.ID,
		&c.StudentID,
		&c.TeacherID,
		&c.Title,
		&c.StartTime,
		&c.EndTime,
		&c.Status,
		&c.Type,
		&c.MeetingLink,
		&c.Location,
		&c.Notes,
		&fbAuthor, &fbContent, &fbAt,
		&hwAuthor, &hwContent, &hwAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fbAuthor != nil && fbContent != nil && fbAt != nil {
		c.Feedback = &model.Feedback{AuthorID: *fbAuthor, Content: *fbContent, CreatedAt: *fbAt}
	}
	if hwAuthor != nil && hwContent != nil && hwAt != nil {
		c.Homework = &model.HomeworkSubmission{AuthorID: *hwAuthor, Content: *hwContent, CreatedAt: *hwAt}
	}

	return &c, nil
}
