package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/asana/internal/app"
	"github.com/ayusman/asana/internal/eval"
	"github.com/ayusman/asana/internal/store"
)

// StandardsHandler handles HTTP requests for golden standard resources.
// Training a new standard is a POST to the collection.
type StandardsHandler struct {
	app   *app.App
	store *store.Store
}

// NewStandardsHandler creates a new StandardsHandler.
func NewStandardsHandler(a *app.App, s *store.Store) *StandardsHandler {
	return &StandardsHandler{app: a, store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *StandardsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/standards or /api/standards/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/standards")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.train(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type trainRequest struct {
	Pose   string         `json:"pose"`
	Source string         `json:"source"`
	Frames []framePayload `json:"frames"`
}

type standardResponse struct {
	ID          string           `json:"id"`
	PoseName    string           `json:"pose_name"`
	Source      string           `json:"source"`
	TotalFrames int              `json:"total_frames"`
	Angles      []eval.AngleStat `json:"angles,omitempty"`
	CreatedAt   string           `json:"created_at"`
}

type listStandardsResponse struct {
	Standards []standardResponse `json:"standards"`
}

// toStandardResponse converts a store.Standard to its response form.
// The per-frame sequence is omitted; only the per-angle aggregates are
// surfaced.
func toStandardResponse(st *store.Standard, includeAngles bool) standardResponse {
	resp := standardResponse{
		ID:          st.ID,
		PoseName:    st.PoseName,
		Source:      st.Source,
		TotalFrames: st.TotalFrames,
		CreatedAt:   st.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if includeAngles {
		var golden eval.GoldenStandard
		if err := json.Unmarshal(st.Data, &golden); err == nil {
			resp.Angles = golden.Angles
		}
	}

	return resp
}

// train handles POST /api/standards and builds a golden standard from the
// posted landmark frame sequence.
func (h *StandardsHandler) train(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Pose == "" {
		writeError(w, http.StatusBadRequest, "Pose is required")
		return
	}
	if len(req.Frames) == 0 {
		writeError(w, http.StatusBadRequest, "Frames are required")
		return
	}

	frames, err := toFrames(req.Frames)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, _, err := h.app.Train(req.Pose, req.Source, frames)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toStandardResponse(record, true))
}

// list handles GET /api/standards with an optional ?pose= filter.
func (h *StandardsHandler) list(w http.ResponseWriter, r *http.Request) {
	standards, err := h.store.Standards().List(r.URL.Query().Get("pose"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list standards")
		return
	}

	response := listStandardsResponse{
		Standards: make([]standardResponse, 0, len(standards)),
	}
	for _, st := range standards {
		response.Standards = append(response.Standards, toStandardResponse(st, false))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/standards/{id} and returns the full standard.
func (h *StandardsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	st, err := h.store.Standards().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Standard not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get standard")
		return
	}

	writeJSON(w, http.StatusOK, toStandardResponse(st, true))
}

// delete handles DELETE /api/standards/{id}.
func (h *StandardsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Standards().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Standard not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete standard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
