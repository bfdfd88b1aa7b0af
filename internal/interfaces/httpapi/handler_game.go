package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/courtstats/internal/usecase"
)

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var startsAt time.Time
	if strings.TrimSpace(req.StartsAt) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: starts_at must be RFC3339", usecase.ErrInvalidInput))
			return
		}
		startsAt = parsed
	}

	item, err := h.gameService.CreateGame(ctx, usecase.CreateGameInput{
		ID:             req.ID,
		SeasonYear:     req.SeasonYear,
		HomeTeamID:     req.HomeTeamID,
		AwayTeamID:     req.AwayTeamID,
		HomeTracking:   req.HomeTracking,
		AwayTracking:   req.AwayTracking,
		HomeStarterIDs: req.HomeStarterIDs,
		AwayStarterIDs: req.AwayStarterIDs,
		StartsAt:       startsAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "season_year", req.SeasonYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(item))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) ListGamesBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesBySeason")
	defer span.End()

	season, err := seasonParam(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.gameService.ListGamesBySeason(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "season_year", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.rollupService.CompleteGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) RollupGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RollupGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	result, err := h.rollupService.RollupCompletedGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "rollup game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RecalculateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	result, err := h.recalcService.Recalculate(ctx, gameID)
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculate game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RecalculateGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateGames")
	defer span.End()

	var req recalculateGamesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.recalcService.RecalculateGames(ctx, req.GameIDs, req.MaxWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "bulk recalculation failed", "game_count", len(req.GameIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
