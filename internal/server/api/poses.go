// Package api provides HTTP API handlers for the pose evaluation service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/eval"
	"github.com/ayusman/asana/internal/pose"
	"github.com/ayusman/asana/internal/store"
)

// PosesHandler serves the static pose catalog.
type PosesHandler struct {
	registry *pose.Registry
}

// NewPosesHandler creates a new PosesHandler with the given registry.
func NewPosesHandler(r *pose.Registry) *PosesHandler {
	return &PosesHandler{registry: r}
}

type poseAngleResponse struct {
	Name      string  `json:"name"`
	Tolerance float64 `json:"tolerance"`
}

type poseResponse struct {
	Name        string              `json:"name"`
	DisplayName string              `json:"display_name"`
	Angles      []poseAngleResponse `json:"angles"`
}

type listPosesResponse struct {
	Poses []poseResponse `json:"poses"`
}

// ServeHTTP handles GET /api/poses.
func (h *PosesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := listPosesResponse{Poses: []poseResponse{}}
	for _, def := range h.registry.List() {
		p := poseResponse{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			Angles:      make([]poseAngleResponse, 0, len(def.Angles)),
		}
		for _, a := range def.Angles {
			p.Angles = append(p.Angles, poseAngleResponse{Name: a.Name, Tolerance: a.Tolerance})
		}
		response.Poses = append(response.Poses, p)
	}

	writeJSON(w, http.StatusOK, response)
}

// Shared request/response plumbing

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeEngineError maps engine failures to distinguishable HTTP statuses so
// callers can tell "video too short" from "wrong pose" from "pose unsupported".
func writeEngineError(w http.ResponseWriter, err error) {
	var unreliable *eval.AngleUnreliableError

	switch {
	case errors.Is(err, pose.ErrUnknownPose), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, eval.ErrInsufficientTrainingData),
		errors.Is(err, eval.ErrAlignmentInputTooShort),
		errors.Is(err, eval.ErrAlignmentDegenerate),
		errors.Is(err, eval.ErrPoseMismatch),
		errors.As(err, &unreliable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// landmarkPayload mirrors detector.Landmark on the wire.
type landmarkPayload struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// framePayload is one detected frame posted by the landmark-detection
// collaborator.
type framePayload struct {
	Index       int               `json:"index"`
	TimestampMs int64             `json:"timestamp_ms"`
	Landmarks   []landmarkPayload `json:"landmarks"`
}

// toFrames converts the wire payload to detector frames, enforcing
// strictly increasing frame indices.
func toFrames(payload []framePayload) ([]detector.Frame, error) {
	frames := make([]detector.Frame, 0, len(payload))
	lastIndex := -1

	for i, fp := range payload {
		if fp.Index <= lastIndex {
			return nil, fmt.Errorf("frame %d: index %d not strictly increasing (previous %d)", i, fp.Index, lastIndex)
		}
		lastIndex = fp.Index

		frame := detector.Frame{
			Index:       fp.Index,
			TimestampMs: fp.TimestampMs,
		}
		for j := 0; j < len(fp.Landmarks) && j < detector.NumLandmarks; j++ {
			frame.Landmarks[j] = detector.Landmark{
				X:          fp.Landmarks[j].X,
				Y:          fp.Landmarks[j].Y,
				Z:          fp.Landmarks[j].Z,
				Visibility: fp.Landmarks[j].Visibility,
			}
		}
		frames = append(frames, frame)
	}

	return frames, nil
}
