package main

import (
	"errors"
	"net/http"

	"cropsight/earthengine"

	"github.com/goccy/go-json"
)

const (
	thumbDimensions = 512
	thumbFormat     = "PNG"
)

// handleWelcome is the informational root endpoint.
func (a *App) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResp{
		Message: "Welcome to the Earth Engine API. Use the /calculate_indices endpoint to perform calculations.",
	})
}

// handleCalculateIndices validates the request, derives the requested index band
// from the configured composite, and returns a rendered thumbnail URL.
//
// Validation failures are 400 with a descriptive message and never reach the
// platform. A platform failure is retried exactly once after forcing
// reauthentication; the retry covers only the remote call, not re-validation.
func (a *App) handleCalculateIndices(w http.ResponseWriter, r *http.Request) {
	var req calculateIndicesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "Invalid JSON body"})
		return
	}
	if len(req.Coordinates) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "No coordinates provided"})
		return
	}
	if req.Index == "" {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "No index specified"})
		return
	}
	ix, ok := ParseIndex(req.Index)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp{Error: "Invalid index specified"})
		return
	}

	render := earthengine.RenderRequest{
		Expression: buildIndexExpression(a.cfg, req.Coordinates, ix),
		Dimensions: thumbDimensions,
		Format:     thumbFormat,
	}

	url, err := a.engine.RenderThumbnail(r.Context(), render)
	if err != nil {
		var apiErr *earthengine.APIError
		if !errors.As(err, &apiErr) {
			a.log.Error().Err(err).Msg("unexpected error rendering thumbnail")
			writeJSON(w, http.StatusInternalServerError, errorResp{Error: "An unexpected error occurred"})
			return
		}

		a.log.Warn().Err(err).Str("index", string(ix)).Msg("earth engine error, reinitializing session")
		if rerr := a.engine.Reauthenticate(r.Context()); rerr != nil {
			a.log.Error().Err(rerr).Msg("earth engine reinitialization failed")
			writeJSON(w, http.StatusInternalServerError, errorResp{Error: "Failed to reinitialize Earth Engine session"})
			return
		}

		url, err = a.engine.RenderThumbnail(r.Context(), render)
		if err != nil {
			a.log.Error().Err(err).Msg("earth engine retry failed")
			writeJSON(w, http.StatusInternalServerError, errorResp{Error: "An unexpected error occurred"})
			return
		}
	}

	a.log.Debug().Str("index", string(ix)).Str("url", url).Msg("generated thumbnail url")
	writeJSON(w, http.StatusOK, calculateIndicesResp{
		URL:         url,
		Coordinates: req.Coordinates,
		Index:       string(ix),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
