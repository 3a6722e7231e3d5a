package model

import "time"

type CourseStatus string

const (
	CourseStatusPending   CourseStatus = "pending"   // booked, waiting for teacher
	CourseStatusConfirmed CourseStatus = "confirmed" // accepted by teacher
	CourseStatusCancelled CourseStatus = "cancelled" // terminal
	CourseStatusCompleted CourseStatus = "completed" // terminal
)

type CourseType string

const (
	CourseTypeOnline  CourseType = "online"  // requires MeetingLink
	CourseTypeOffline CourseType = "offline" // requires Location
)

// Course is a scheduled (or proposed) session between one student and one
// teacher. Courses are never deleted through the normal lifecycle; they are
// terminally marked cancelled instead.
type Course struct {
	ID          int64        `json:"id"`
	StudentID   int64        `json:"student_id"`
	TeacherID   int64        `json:"teacher_id"`
	Title       string       `json:"title"`
	StartTime   time.Time    `json:"start_time"`
	EndTime     time.Time    `json:"end_time"`
	Status      CourseStatus `json:"status"`
	Type        CourseType   `json:"course_type"`
	MeetingLink string       `json:"meeting_link,omitempty"` // online only
	Location    string       `json:"location,omitempty"`     // offline only
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Attached records owned by out-of-scope collaborators. Only legal on a
	// completed course.
	Feedback *Feedback           `json:"feedback,omitempty"`
	Homework *HomeworkSubmission `json:"homework,omitempty"`
}

// Feedback is an opaque record a teacher attaches after completion.
type Feedback struct {
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HomeworkSubmission is an opaque record a student attaches after completion.
type HomeworkSubmission struct {
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// courseTransitions is the closed transition graph. Anything absent here is
// an invalid transition.
var courseTransitions = map[CourseStatus][]CourseStatus{
	CourseStatusPending:   {CourseStatusConfirmed, CourseStatusCancelled},
	CourseStatusConfirmed: {CourseStatusCancelled, CourseStatusCompleted},
}

// CanTransitionTo reports whether the status machine allows moving the
// course to the target status.
func (c *Course) CanTransitionTo(target CourseStatus) bool {
	for _, next := range courseTransitions[c.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (c *Course) IsTerminal() bool {
	return len(courseTransitions[c.Status]) == 0
}

// IsActive reports whether the course still occupies its time slot. Active
// courses exclude their interval from matcher output.
func (c *Course) IsActive() bool {
	return c.Status == CourseStatusPending || c.Status == CourseStatusConfirmed
}

// IsParty reports whether the user is the course's student or teacher.
func (c *Course) IsParty(userID int64) bool {
	return c.StudentID == userID || c.TeacherID == userID
}

// Duration returns the scheduled length of the session.
func (c *Course) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}

// Hours returns the session length in course-hours, the unit the ledger
// tracks.
func (c *Course) Hours() float64 {
	return c.Duration().Minutes() / 60
}

// DayRange returns the course interval as a minute-of-day range on its date.
func (c *Course) DayRange() TimeRange {
	return TimeRange{StartMinute: MinuteOf(c.StartTime), EndMinute: MinuteOf(c.EndTime)}
}

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s CourseStatus) bool {
	switch s {
	case CourseStatusPending, CourseStatusConfirmed, CourseStatusCancelled, CourseStatusCompleted:
		return true
	}
	return false
}

// ValidCourseType reports whether t is a known course type.
func ValidCourseType(t CourseType) bool {
	return t == CourseTypeOnline || t == CourseTypeOffline
}
