package controller

import (
	"net/http"
)

func (c *Controller) handleAdminCreateCourse(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	var req adminCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	course, err := c.admin.CreateCourse(r.Context(), actor, params)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (c *Controller) handleAdminUpdateCourse(w http.ResponseWriter, r *http.Request) {
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

	var req adminCourseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	course, err := c.admin.UpdateCourse(r.Context(), actor, courseID, params)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (c *Controller) handleAdminDeleteCourse(w http.ResponseWriter, r *http.Request) {
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

	if err := c.admin.DeleteCourse(r.Context(), actor, courseID); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) handleAdminCreditHours(w http.ResponseWriter, r *http.Request) {
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

	var req creditHoursRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	ledger, err := c.admin.CreditHours(r.Context(), actor, studentID, req.Hours)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}
