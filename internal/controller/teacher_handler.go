package controller

import (
	"net/http"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/model"
)

func (c *Controller) handleTeacherCourses(w http.ResponseWriter, r *http.Request) {
	teacherID, err := urlID(r, "teacherID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	if actor != teacherID {
		writeError(w, r, c.logger, apperr.Authorizationf("user %d may not list courses of teacher %d", actor, teacherID))
		return
	}

	courses, err := c.courses.CoursesByTeacher(r.Context(), teacherID, statusFilter(r))
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (c *Controller) handleGetCourse(w http.ResponseWriter, r *http.Request) {
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

	course, err := c.courses.Get(r.Context(), courseID, actor)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// handlePatchCourse drives the status machine: teachers confirm, reject or
// complete, either party cancels.
func (c *Controller) handlePatchCourse(w http.ResponseWriter, r *http.Request) {
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

	var req patchCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	course, err := c.courses.Transition(r.Context(), courseID, actor, model.CourseStatus(req.Status), req.Reason)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (c *Controller) handleAttachFeedback(w http.ResponseWriter, r *http.Request) {
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

	course, err := c.courses.AttachFeedback(r.Context(), courseID, actor, req.Content)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}
