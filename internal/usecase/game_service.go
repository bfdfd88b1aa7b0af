package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/courtstats/internal/domain/game"
	"github.com/riskibarqy/courtstats/internal/platform/id"
)

type CreateGameInput struct {
	ID             string
	SeasonYear     int
	HomeTeamID     string
	AwayTeamID     string
	HomeTracking   string
	AwayTracking   string
	HomeStarterIDs []string
	AwayStarterIDs []string
	StartsAt       time.Time
}

type GameService struct {
	games game.Repository
	ids   id.Generator
}

func NewGameService(games game.Repository, ids id.Generator) *GameService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &GameService{games: games, ids: ids}
}

// CreateGame registers a game in Recording status. An id is generated when none is given.
func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	homeTracking, ok := game.ParseTrackingMode(input.HomeTracking)
	if !ok {
		return game.Game{}, fmt.Errorf("%w: unknown home tracking mode %q", ErrInvalidInput, input.HomeTracking)
	}
	awayTracking, ok := game.ParseTrackingMode(input.AwayTracking)
	if !ok {
		return game.Game{}, fmt.Errorf("%w: unknown away tracking mode %q", ErrInvalidInput, input.AwayTracking)
	}

	g := game.Game{
		ID:             strings.TrimSpace(input.ID),
		SeasonYear:     input.SeasonYear,
		HomeTeamID:     strings.TrimSpace(input.HomeTeamID),
		AwayTeamID:     strings.TrimSpace(input.AwayTeamID),
		HomeTracking:   homeTracking,
		AwayTracking:   awayTracking,
		HomeStarterIDs: uniqueTrimmed(input.HomeStarterIDs),
		AwayStarterIDs: uniqueTrimmed(input.AwayStarterIDs),
		Status:         game.StatusRecording,
		StartsAt:       input.StartsAt.UTC(),
	}
	if g.SeasonYear <= 0 {
		return game.Game{}, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return game.Game{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if g.HomeTeamID == g.AwayTeamID {
		return game.Game{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}

	if g.ID == "" {
		generated, err := s.ids.NewID()
		if err != nil {
			return game.Game{}, fmt.Errorf("generate game id: %w", err)
		}
		g.ID = generated
	} else {
		_, exists, err := s.games.GetByID(ctx, g.ID)
		if err != nil {
			return game.Game{}, fmt.Errorf("get game: %w", err)
		}
		if exists {
			return game.Game{}, fmt.Errorf("%w: game %s already exists", ErrInvalidInput, g.ID)
		}
	}

	if err := s.games.Upsert(ctx, g); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	g, exists, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	return g, nil
}

func (s *GameService) ListGamesBySeason(ctx context.Context, seasonYear int) ([]game.Game, error) {
	if seasonYear <= 0 {
		return nil, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}
	items, err := s.games.ListBySeason(ctx, seasonYear)
	if err != nil {
		return nil, fmt.Errorf("list games by season: %w", err)
	}
	return items, nil
}

// TrackingMode answers which recording mode a side of a game uses.
func (s *GameService) TrackingMode(ctx context.Context, gameID string, side game.Side) (game.TrackingMode, error) {
	g, err := s.GetGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	if _, ok := g.TeamID(side); !ok {
		return "", fmt.Errorf("%w: unknown side %q", ErrInvalidInput, side)
	}
	return g.TrackingMode(side), nil
}
