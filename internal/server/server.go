// Package server exposes the analytics facade over plain JSON HTTP.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/breckhall/finsight/internal/service"
	"github.com/breckhall/finsight/internal/snapshot"
)

// Handler owns the HTTP surface: profile analytics reads plus the
// operational endpoints for reloads and cache control.
type Handler struct {
	svc    *service.Analytics
	source snapshot.Source
	log    zerolog.Logger
}

// NewHandler creates the HTTP handler. source is what /api/reload re-fetches
// the snapshot from.
func NewHandler(svc *service.Analytics, source snapshot.Source, log zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		source: source,
		log:    log,
	}
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/profiles/", h.handleProfiles)

	mux.HandleFunc("/api/cache/spending/invalidate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleInvalidateSpending(w, r)
	})

	mux.HandleFunc("/api/cache/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		WriteJSON(w, http.StatusOK, h.svc.CacheStats())
	})

	mux.HandleFunc("/api/reload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleReload(w, r)
	})

	mux.HandleFunc("/health", h.handleHealth)
}

// handleProfiles dispatches /api/profiles/{id}/metrics and
// /api/profiles/{id}/spending.
func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/profiles/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "unknown resource")
		return
	}
	customerID := parts[0]

	switch parts[1] {
	case "metrics":
		h.handleMetrics(w, r, customerID)
	case "spending":
		h.handleSpending(w, r, customerID)
	default:
		WriteError(w, http.StatusNotFound, "unknown resource")
	}
}

// handleMetrics handles GET /api/profiles/{id}/metrics
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request, customerID string) {
	res, err := h.svc.GetProfileMetrics(r.Context(), customerID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// handleSpending handles GET /api/profiles/{id}/spending?year=&month=
func (h *Handler) handleSpending(w http.ResponseWriter, r *http.Request, customerID string) {
	query := r.URL.Query()

	yearStr := query.Get("year")
	if yearStr == "" {
		h.writeKindError(w, http.StatusBadRequest, service.KindInvalidArgument, "year query parameter is required")
		return
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		h.writeKindError(w, http.StatusBadRequest, service.KindInvalidArgument, "year must be an integer")
		return
	}

	// Month is optional; without it the analysis covers the whole year.
	month := 0
	if monthStr := query.Get("month"); monthStr != "" {
		month, err = strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			h.writeKindError(w, http.StatusBadRequest, service.KindInvalidArgument, "month must be between 1 and 12")
			return
		}
	}

	res, err := h.svc.GetSpendingAnalysis(r.Context(), customerID, year, month)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// handleInvalidateSpending handles POST /api/cache/spending/invalidate
func (h *Handler) handleInvalidateSpending(w http.ResponseWriter, r *http.Request) {
	removed := h.svc.InvalidateSpendingCache(r.Context())
	WriteJSON(w, http.StatusOK, map[string]int{"invalidated": removed})
}

// handleReload handles POST /api/reload by re-fetching the snapshot from the
// configured source and swapping it in.
func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	files, err := h.source.Fetch(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("source", h.source.Describe()).Msg("snapshot fetch failed")
		WriteError(w, http.StatusInternalServerError, "snapshot fetch failed")
		return
	}

	summary, err := h.svc.ReloadSnapshot(ctx, files)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleHealth handles GET /health
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"snapshot": h.svc.SnapshotInfo(),
	})
}

// writeServiceError maps a service failure onto the HTTP status surface.
// Internal details stay in the logs.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)
	message := err.Error()
	var se *service.Error
	if errors.As(err, &se) {
		message = se.Message
	}

	switch kind {
	case service.KindInvalidArgument:
		h.writeKindError(w, http.StatusBadRequest, kind, message)
	case service.KindNotFound:
		h.writeKindError(w, http.StatusNotFound, kind, message)
	default:
		h.log.Error().Err(err).Msg("request failed")
		h.writeKindError(w, http.StatusInternalServerError, kind, "internal error")
	}
}

func (h *Handler) writeKindError(w http.ResponseWriter, status int, kind service.Kind, message string) {
	WriteJSON(w, status, map[string]string{
		"error": message,
		"kind":  string(kind),
	})
}
