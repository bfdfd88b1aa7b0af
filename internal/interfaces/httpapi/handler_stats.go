package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/usecase"
)

func (h *Handler) ListTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	rows, err := h.queryService.ListTeamStats(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamStatsDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamStatsToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))
	quarter, _, err := quarterParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.queryService.GetTeamStats(ctx, gameID, teamID, quarter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, teamStatsToDTO(row))
}

func (h *Handler) ListPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	quarter, hasQuarter, err := quarterParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var filter *int
	if hasQuarter {
		filter = &quarter
	}

	rows, err := h.queryService.ListPlayerStats(ctx, gameID, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]playerStatsDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerStatsToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	quarter, _, err := quarterParam(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.queryService.GetPlayerStats(ctx, gameID, playerID, quarter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerStatsToDTO(row))
}

func (h *Handler) AnnotatePlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnnotatePlayerStats")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	var req annotatePlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.queryService.AttachAnnotations(ctx, usecase.AnnotatePlayerInput{
		GameID:    gameID,
		PlayerID:  playerID,
		Quarter:   req.Quarter,
		PlusMinus: req.PlusMinus,
		ShotChart: req.ShotChart,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "annotate player stats failed", "game_id", gameID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, playerStatsToDTO(row))
}

func (h *Handler) ListSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	rows, err := h.queryService.ListSeasonStats(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, seasonRowsToDTO(rows))
}

// GetSeasonStats reads the all-teams record unless ?team_id= narrows it.
func (h *Handler) GetSeasonStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	season, err := seasonParam(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	row, err := h.queryService.GetSeasonStats(ctx, playerID, season, r.URL.Query().Get("team_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, seasonStatsToDTO(row))
}

func (h *Handler) RollupPlayerGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RollupPlayerGame")
	defer span.End()

	season, err := seasonParam(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req rollupGameRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rollupService.RollupGame(ctx, req.PlayerID, req.GameID, season); err != nil {
		h.logger.WarnContext(ctx, "rollup player game failed", "player_id", req.PlayerID, "game_id", req.GameID, "season_year", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	row, err := h.queryService.GetSeasonStats(ctx, req.PlayerID, season, "")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, seasonStatsToDTO(row))
}

func (h *Handler) RebuildSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildSeason")
	defer span.End()

	season, err := seasonParam(r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rollupService.RebuildSeason(ctx, season)
	if err != nil {
		h.logger.ErrorContext(ctx, "rebuild season failed", "season_year", season, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, result)
}

func seasonRowsToDTO(rows []boxscore.PlayerSeasonStats) []seasonStatsDTO {
	out := make([]seasonStatsDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonStatsToDTO(row))
	}
	return out
}
