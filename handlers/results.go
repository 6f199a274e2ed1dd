package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/camden-git/printprep/database"
	"github.com/camden-git/printprep/repository"
)

const defaultListLimit = 100

// ResultsHandler serves the persisted per-image diagnostics records for
// review.
type ResultsHandler struct {
	Repo *repository.ResultRepository
}

func parseBoolParam(r *http.Request, name string) (*bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &val, true
}

func parseIntParam(r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &val, true
}

// buildFilter translates query parameters into a ResultFilter; the second
// return value is false when a parameter is malformed.
func buildFilter(r *http.Request) (database.ResultFilter, bool) {
	filter := database.ResultFilter{Limit: defaultListLimit}

	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = &raw
	}

	var ok bool
	if filter.IsBacklit, ok = parseBoolParam(r, "backlit"); !ok {
		return filter, false
	}
	if filter.IsLowLight, ok = parseBoolParam(r, "low_light"); !ok {
		return filter, false
	}
	if filter.SkinTones, ok = parseBoolParam(r, "skin_tones"); !ok {
		return filter, false
	}
	if filter.MinISO, ok = parseIntParam(r, "min_iso"); !ok {
		return filter, false
	}
	if filter.MaxISO, ok = parseIntParam(r, "max_iso"); !ok {
		return filter, false
	}
	if limit, ok := parseIntParam(r, "limit"); !ok {
		return filter, false
	} else if limit != nil && *limit > 0 {
		filter.Limit = uint64(*limit)
	}

	return filter, true
}

// ListResults handles GET /api/results with optional filters
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	filter, ok := buildFilter(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", "one or more query parameters are malformed")
		return
	}

	results, err := h.Repo.List(filter)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

// GetResult handles GET /api/results/{result_id}
func (h *ResultsHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "result_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "result id must be a positive integer")
		return
	}

	result, err := h.Repo.GetByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			WriteAPIError(w, http.StatusNotFound, "not_found", "no result with that id")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "get_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// GetSummary handles GET /api/summary with the same filters as ListResults
func (h *ResultsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := buildFilter(r)
	if !ok {
		WriteAPIError(w, http.StatusBadRequest, "invalid_filter", "one or more query parameters are malformed")
		return
	}
	filter.Limit = 0 // summaries cover the whole filtered set

	summary, err := h.Repo.Summarize(filter)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "summary_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
