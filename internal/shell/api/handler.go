// Package api provides the HTTP handlers for the planning API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fplkit/planner/internal/core/domain"
	"github.com/fplkit/planner/internal/shell/catalog"
	"github.com/fplkit/planner/internal/shell/fplapi"
	"github.com/fplkit/planner/internal/shell/planner"
	"github.com/fplkit/planner/internal/shell/predictor"
	"github.com/fplkit/planner/internal/shell/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	planner   *planner.Service
	catalog   *catalog.Service
	predictor *predictor.Client
	logger    *slog.Logger
}

// NewHandler creates a new API handler. predictor may be nil; the
// optimize endpoint then answers 503.
func NewHandler(p *planner.Service, c *catalog.Service, pred *predictor.Client, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	return &Handler{
		planner:   p,
		catalog:   c,
		predictor: pred,
		logger:    l,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.jsonContentType)
	r.Use(h.requestIDHeader)

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Catalog routes
		r.Get("/players", h.handleListPlayers)
		r.Get("/players/{id}", h.handleGetPlayer)
		r.Get("/teams", h.handleListTeams)
		r.Get("/gameweeks", h.handleListGameweeks)
		r.Get("/gameweeks/current", h.handleCurrentGameweek)
		r.Get("/fixtures", h.handleListFixtures)

		// Squad routes
		r.Route("/squads", func(r chi.Router) {
			r.Get("/user/{fplID}", h.handleImportPreview)
			r.Post("/optimize", h.handleOptimizeSquad)
		})

		// Plan routes
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", h.handleCreatePlan)
			r.Get("/", h.handleListPlans)
			r.Get("/user/{userID}", h.handleGetPlanByUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetPlan)
				r.Delete("/", h.handleDeletePlan)
				r.Post("/advance", h.handleAdvance)
				r.Post("/reset", h.handleResetAll)
				r.Route("/gameweeks/{gw}", func(r chi.Router) {
					r.Post("/transfers", h.handleProposeTransfer)
					r.Delete("/transfers/{index}", h.handleUndoTransfer)
					r.Post("/swap", h.handleSwap)
					r.Post("/captain", h.handleSetCaptain)
					r.Post("/vice-captain", h.handleSetViceCaptain)
					r.Post("/reset", h.handleResetGameweek)
				})
			})
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handler
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy"}
	if h.predictor != nil {
		resp.Predictor = "unreachable"
		if h.predictor.Healthy(r.Context()) {
			resp.Predictor = "ok"
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Catalog Handlers
// =============================================================================

func (h *Handler) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.catalog.Players(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, players)
}

func (h *Handler) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid player id", "validation_error")
		return
	}
	player, ok, err := h.catalog.PlayerByID(r.Context(), id)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	if !ok {
		h.writeError(w, http.StatusNotFound, "player not found", "not_found")
		return
	}
	h.writeJSON(w, http.StatusOK, player)
}

func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.catalog.Teams(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, teams)
}

func (h *Handler) handleListGameweeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.catalog.Gameweeks(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, weeks)
}

func (h *Handler) handleCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	gw, err := h.catalog.CurrentGameweek(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, CurrentGameweekResponse{ID: gw})
}

func (h *Handler) handleListFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.catalog.Fixtures(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, fixtures)
}

// =============================================================================
// Squad Handlers
// =============================================================================

func (h *Handler) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	imported, err := h.catalog.ImportSquad(r.Context(), chi.URLParam(r, "fplID"))
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, imported)
}

func (h *Handler) handleOptimizeSquad(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil {
		h.writeError(w, http.StatusServiceUnavailable, "optimizer not configured", "optimizer_unavailable")
		return
	}

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}
	budget, err := decimal.NewFromString(req.Budget)
	if err != nil || budget.IsNegative() {
		h.writeError(w, http.StatusBadRequest, "invalid budget", "validation_error")
		return
	}

	enriched, err := h.catalog.Players(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	players := make([]domain.Player, 0, len(enriched))
	for _, p := range enriched {
		players = append(players, p.Player)
	}

	result, err := h.predictor.Optimize(r.Context(), players, budget)
	if err != nil {
		h.logger.Error("squad optimization failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "optimizer unavailable", "upstream_error")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// Plan Handlers
// =============================================================================

func (h *Handler) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}
	if req.ManagerID == "" {
		h.writeError(w, http.StatusBadRequest, "manager_id is required", "validation_error")
		return
	}

	pl, err := h.planner.CreatePlan(r.Context(), req.ManagerID)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, planToResponse(pl))
}

func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		opts.Offset, _ = strconv.Atoi(v)
	}

	summaries, err := h.planner.ListPlans(r.Context(), opts)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	pl, err := h.planner.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) handleGetPlanByUser(w http.ResponseWriter, r *http.Request) {
	pl, err := h.planner.GetPlanByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writePlanError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	pl, next, err := h.planner.Advance(r.Context(), chi.URLParam(r, "id"), req.FromGameweekID)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, AdvanceResponse{GameweekID: next, Plan: planToResponse(pl)})
}

func (h *Handler) handleResetAll(w http.ResponseWriter, r *http.Request) {
	pl, err := h.planner.ResetAll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

// =============================================================================
// Gameweek Edit Handlers
// =============================================================================

func (h *Handler) handleProposeTransfer(w http.ResponseWriter, r *http.Request) {
	gw, ok := h.gameweekParam(w, r)
	if !ok {
		return
	}
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	pl, err := h.planner.ProposeTransfer(r.Context(), chi.URLParam(r, "id"), gw, req.OutID, req.InID)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) handleUndoTransfer(w http.ResponseWriter, r *http.Request) {
	gw, ok := h.gameweekParam(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid transfer index", "validation_error")
		return
	}

	pl, err := h.planner.UndoTransfer(r.Context(), chi.URLParam(r, "id"), gw, index)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) handleSwap(w http.ResponseWriter, r *http.Request) {
	gw, ok := h.gameweekParam(w, r)
	if !ok {
		return
	}
	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	pl, err := h.planner.Swap(r.Context(), chi.URLParam(r, "id"), gw, req.FirstID, req.SecondID)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) handleSetCaptain(w http.ResponseWriter, r *http.Request) {
	h.handleArmband(w, r, h.planner.SetCaptain)
}

func (h *Handler) handleSetViceCaptain(w http.ResponseWriter, r *http.Request) {
	h.handleArmband(w, r, h.planner.SetViceCaptain)
}

func (h *Handler) handleArmband(w http.ResponseWriter, r *http.Request,
	assign func(ctx context.Context, planID string, gameweekID, playerID int) (*domain.Plan, error)) {
	gw, ok := h.gameweekParam(w, r)
	if !ok {
		return
	}
	var req ArmbandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	pl, err := assign(r.Context(), chi.URLParam(r, "id"), gw, req.PlayerID)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) handleResetGameweek(w http.ResponseWriter, r *http.Request) {
	gw, ok := h.gameweekParam(w, r)
	if !ok {
		return
	}
	pl, err := h.planner.ResetGameweek(r.Context(), chi.URLParam(r, "id"), gw)
	if err != nil {
		h.writePlanError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, planToResponse(pl))
}

func (h *Handler) gameweekParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	gw, err := strconv.Atoi(chi.URLParam(r, "gw"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid gameweek", "validation_error")
		return 0, false
	}
	return gw, true
}

// =============================================================================
// Error Mapping
// =============================================================================

// writePlanError maps a planning error onto a status code: rule
// violations are 422 with a machine-readable code, missing resources are
// 404, upstream failures 502.
func (h *Handler) writePlanError(w http.ResponseWriter, err error) {
	var formationErr *domain.InvalidFormationError
	var apiErr *fplapi.APIError

	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error(), "not_found")
	case errors.Is(err, domain.ErrUnknownGameweek):
		h.writeError(w, http.StatusNotFound, err.Error(), "unknown_gameweek")
	case errors.Is(err, domain.ErrIllegalTransfer):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "illegal_transfer")
	case errors.Is(err, domain.ErrGoalkeeperBenchFixed):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "goalkeeper_bench_fixed")
	case errors.As(err, &formationErr):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "invalid_formation")
	case errors.Is(err, domain.ErrNotAStarter):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "not_a_starter")
	case errors.Is(err, domain.ErrNotInSquad):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "not_in_squad")
	case errors.Is(err, domain.ErrIndexOutOfRange):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "index_out_of_range")
	case errors.Is(err, domain.ErrUndoOrder):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "undo_order")
	case errors.Is(err, domain.ErrAnchorImmutable):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error(), "anchor_immutable")
	case errors.As(err, &apiErr):
		h.writeUpstreamError(w, err)
	default:
		h.logger.Error("plan operation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
	}
}

// writeUpstreamError maps catalog and import failures: an unknown
// manager is the caller's 404, everything else is a 502.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *fplapi.APIError
	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
		h.writeError(w, http.StatusNotFound, err.Error(), "not_found")
		return
	}
	h.logger.Error("upstream request failed", "error", err)
	h.writeError(w, http.StatusBadGateway, "upstream data source unavailable", "upstream_error")
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
