package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
	"github.com/classhour/backend/internal/service"
)

// defaultHorizonDays is how far ahead matching availability is computed
// when the client does not ask for a specific horizon.
const defaultHorizonDays = 30

func (c *Controller) handleMatchingAvailability(w http.ResponseWriter, r *http.Request) {
	studentID, err := urlID(r, "studentID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	if actor != studentID {
		writeError(w, r, c.logger, apperr.Authorizationf("user %d may not query availability for student %d", actor, studentID))
		return
	}

	teacherID, err := strconv.ParseInt(r.URL.Query().Get("teacher_id"), 10, 64)
	if err != nil || teacherID <= 0 {
		writeError(w, r, c.logger, apperr.Validationf("teacher_id query parameter is required"))
		return
	}

	horizon := defaultHorizonDays
	if raw := r.URL.Query().Get("horizon_days"); raw != "" {
		horizon, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, c.logger, apperr.Validationf("invalid horizon_days %q", raw))
			return
		}
	}

	days, err := c.matcher.MatchingSlots(r.Context(), teacherID, studentID, time.Now(), horizon)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayAvailabilityResponses(days))
}

func (c *Controller) handleBookCourse(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	var req bookCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		writeError(w, r, c.logger, apperr.Validationf("invalid date %q", req.Date))
		return
	}
	start, err := model.ParseMinute(req.Start)
	if err != nil {
		writeError(w, r, c.logger, apperr.Validationf("invalid start time %q", req.Start))
		return
	}
	end, err := model.ParseMinute(req.End)
	if err != nil {
		writeError(w, r, c.logger, apperr.Validationf("invalid end time %q", req.End))
		return
	}

	course, err := c.booking.BookCourse(r.Context(), service.BookCourseRequest{
		StudentID:   actor,
		TeacherID:   req.TeacherID,
		Date:        date,
		Slot:        model.TimeRange{StartMinute: start, EndMinute: end},
		Type:        model.CourseType(req.CourseType),
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		Title:       req.Title,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (c *Controller) handleCancelCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := urlID(r, "courseID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	var req cancelCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	if _, err := c.courses.Cancel(r.Context(), courseID, actor, req.Reason); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) handleStudentCourses(w http.ResponseWriter, r *http.Request) {
	studentID, err := urlID(r, "studentID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	if actor != studentID {
		writeError(w, r, c.logger, apperr.Authorizationf("user %d may not list courses of student %d", actor, studentID))
		return
	}

	courses, err := c.courses.CoursesByStudent(r.Context(), studentID, statusFilter(r))
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (c *Controller) handleStudentLedger(w http.ResponseWriter, r *http.Request) {
	studentID, err := urlID(r, "studentID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	if actor != studentID {
		writeError(w, r, c.logger, apperr.Authorizationf("user %d may not read the ledger of student %d", actor, studentID))
		return
	}

	ledger, err := c.ledger.Get(r.Context(), studentID)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}

func (c *Controller) handleAttachHomework(w http.ResponseWriter, r *http.Request) {
	courseID, err := urlID(r, "courseID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	var req attachmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	course, err := c.courses.AttachHomework(r.Context(), courseID, actor, req.Content)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// statusFilter parses the optional ?status= query parameter.
func statusFilter(r *http.Request) *model.CourseStatus {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	status := model.CourseStatus(raw)
	return &status
}
