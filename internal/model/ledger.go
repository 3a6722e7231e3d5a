package model

import "time"

// StudentLedger tracks a student's course-hours balance. RemainingHours is
// debited when a course is booked and credited back on cancellation;
// CompletedHours grows when a course is completed. Both stay non-negative.
type StudentLedger struct {
	StudentID      int64     `json:"student_id"`
	RemainingHours float64   `json:"remaining_hours"`
	CompletedHours float64   `json:"completed_hours"`
	UpdatedAt      time.Time `json:"updated_at"`
}
