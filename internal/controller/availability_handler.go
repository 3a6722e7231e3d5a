package controller

import (
	"net/http"

	"github.com/classhour/backend/internal/apperr"
	"github.com/classhour/backend/internal/service"
)

// ownWindows resolves the path owner and checks the caller is that user.
func (c *Controller) ownWindows(r *http.Request) (int64, error) {
	ownerID, err := urlID(r, "userID")
	if err != nil {
		return 0, err
	}
	actor, err := actorID(r)
	if err != nil {
		return 0, err
	}
	if actor != ownerID {
		return 0, apperr.Authorizationf("user %d may not manage windows of user %d", actor, ownerID)
	}
	return ownerID, nil
}

func (c *Controller) handleListWindows(w http.ResponseWriter, r *http.Request) {
	ownerID, err := c.ownWindows(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	windows, err := c.avail.WindowsByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, windows)
}

func (c *Controller) handleAddWindow(w http.ResponseWriter, r *http.Request) {
	ownerID, err := c.ownWindows(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	var req windowRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	params, err := req.toParams()
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	window, err := c.avail.AddWindow(r.Context(), ownerID, params)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, window)
}

func (c *Controller) handleReplaceWindows(w http.ResponseWriter, r *http.Request) {
	ownerID, err := c.ownWindows(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	var req replaceWindowsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	params := make([]service.WindowParams, 0, len(req.Windows))
	for _, wr := range req.Windows {
		p, err := wr.toParams()
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		params = append(params, p)
	}

	windows, err := c.avail.ReplaceWindows(r.Context(), ownerID, params)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, windows)
}

func (c *Controller) handleDeleteWindow(w http.ResponseWriter, r *http.Request) {
	ownerID, err := c.ownWindows(r)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	windowID, err := urlID(r, "windowID")
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}

	if err := c.avail.RemoveWindow(r.Context(), ownerID, windowID); err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
