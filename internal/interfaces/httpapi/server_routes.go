package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/games", handler.CreateGame)
	mux.HandleFunc("GET /v1/seasons/{season}/games", handler.ListGamesBySeason)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("POST /v1/games/{gameID}/complete", handler.CompleteGame)
	mux.HandleFunc("POST /v1/games/{gameID}/rollup", handler.RollupGame)
	mux.HandleFunc("POST /v1/games/{gameID}/recalculate", handler.RecalculateGame)

	mux.HandleFunc("POST /v1/games/{gameID}/events", handler.RecordEvent)
	mux.HandleFunc("GET /v1/games/{gameID}/events", handler.ListEvents)
	mux.HandleFunc("POST /v1/games/{gameID}/events/undo", handler.UndoLastEvent)
	mux.HandleFunc("POST /v1/events/{eventID}/apply", handler.ApplyEvent)
	mux.HandleFunc("DELETE /v1/events/{eventID}", handler.DeleteEvent)
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games/{gameID}/stats/teams", handler.ListTeamStats)
	mux.HandleFunc("GET /v1/games/{gameID}/stats/teams/{teamID}", handler.GetTeamStats)
	mux.HandleFunc("GET /v1/games/{gameID}/stats/players", handler.ListPlayerStats)
	mux.HandleFunc("GET /v1/games/{gameID}/stats/players/{playerID}", handler.GetPlayerStats)
	mux.HandleFunc("PUT /v1/games/{gameID}/stats/players/{playerID}/annotations", handler.AnnotatePlayerStats)
	mux.HandleFunc("GET /v1/games/{gameID}/stats/stream", handler.StreamGameStats)

	mux.HandleFunc("GET /v1/players/{playerID}/seasons", handler.ListSeasonStats)
	mux.HandleFunc("GET /v1/players/{playerID}/seasons/{season}", handler.GetSeasonStats)
	mux.HandleFunc("POST /v1/seasons/{season}/rollups", handler.RollupPlayerGame)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/games/recalculate", RequireInternalToken(internalToken, http.HandlerFunc(handler.RecalculateGames)))
	mux.Handle("POST /v1/internal/seasons/{season}/rebuild", RequireInternalToken(internalToken, http.HandlerFunc(handler.RebuildSeason)))
}
