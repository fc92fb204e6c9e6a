package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/asana/internal/app"
	"github.com/ayusman/asana/internal/store"
)

// EvaluationsHandler handles HTTP requests for evaluation resources.
// Scoring a candidate performance is a POST to the collection.
type EvaluationsHandler struct {
	app   *app.App
	store *store.Store
}

// NewEvaluationsHandler creates a new EvaluationsHandler.
func NewEvaluationsHandler(a *app.App, s *store.Store) *EvaluationsHandler {
	return &EvaluationsHandler{app: a, store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *EvaluationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/evaluations or /api/evaluations/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/evaluations")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.evaluate(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type evaluateRequest struct {
	Pose       string         `json:"pose"`
	StandardID string         `json:"standard_id"`
	Source     string         `json:"source"`
	Frames     []framePayload `json:"frames"`
}

type evaluateResponse struct {
	ID         string          `json:"id"`
	StandardID string          `json:"standard_id"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  string          `json:"created_at"`
}

type evaluationSummary struct {
	ID           string `json:"id"`
	PoseName     string `json:"pose_name"`
	StandardID   string `json:"standard_id"`
	Source       string `json:"source"`
	OverallScore int    `json:"overall_score"`
	Passed       bool   `json:"passed"`
	CreatedAt    string `json:"created_at"`
}

type listEvaluationsResponse struct {
	Evaluations []evaluationSummary `json:"evaluations"`
}

func toEvaluationSummary(e *store.Evaluation) evaluationSummary {
	return evaluationSummary{
		ID:           e.ID,
		PoseName:     e.PoseName,
		StandardID:   e.StandardID,
		Source:       e.Source,
		OverallScore: e.OverallScore,
		Passed:       e.Passed,
		CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// evaluate handles POST /api/evaluations and scores the posted landmark
// frame sequence against a stored golden standard.
func (h *EvaluationsHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
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

	_, record, err := h.app.Evaluate(req.Pose, req.StandardID, req.Source, frames)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, evaluateResponse{
		ID:         record.ID,
		StandardID: record.StandardID,
		Result:     record.Data,
		CreatedAt:  record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// list handles GET /api/evaluations with an optional ?pose= filter.
func (h *EvaluationsHandler) list(w http.ResponseWriter, r *http.Request) {
	evaluations, err := h.store.Evaluations().List(r.URL.Query().Get("pose"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list evaluations")
		return
	}

	response := listEvaluationsResponse{
		Evaluations: make([]evaluationSummary, 0, len(evaluations)),
	}
	for _, e := range evaluations {
		response.Evaluations = append(response.Evaluations, toEvaluationSummary(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/evaluations/{id} and returns the full stored result.
func (h *EvaluationsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	e, err := h.store.Evaluations().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Evaluation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get evaluation")
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		ID:         e.ID,
		StandardID: e.StandardID,
		Result:     e.Data,
		CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
