package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/courtstats/internal/infrastructure/statfeed"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"github.com/riskibarqy/courtstats/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	gameService   *usecase.GameService
	eventService  *usecase.EventService
	engine        *usecase.AggregationService
	recalcService *usecase.RecalculationService
	rollupService *usecase.SeasonRollupService
	queryService  *usecase.StatsQueryService
	feed          *statfeed.Broker
	logger        *logging.Logger
	validator     *validator.Validate
	upgrader      websocket.Upgrader
}

func NewHandler(
	gameService *usecase.GameService,
	eventService *usecase.EventService,
	engine *usecase.AggregationService,
	recalcService *usecase.RecalculationService,
	rollupService *usecase.SeasonRollupService,
	queryService *usecase.StatsQueryService,
	feed *statfeed.Broker,
	corsAllowedOrigins []string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameService:   gameService,
		eventService:  eventService,
		engine:        engine,
		recalcService: recalcService,
		rollupService: rollupService,
		queryService:  queryService,
		feed:          feed,
		logger:        logger,
		validator:     validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originAllowed(corsAllowedOrigins),
		},
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body strictly and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

// quarterParam reads ?quarter=. Absent means the full-game row.
func quarterParam(r *http.Request) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("quarter"))
	if raw == "" {
		return 0, false, nil
	}
	q, err := strconv.Atoi(raw)
	if err != nil || q < 0 {
		return 0, false, fmt.Errorf("%w: quarter must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return q, true, nil
}

func seasonParam(raw string) (int, error) {
	season, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || season <= 0 {
		return 0, fmt.Errorf("%w: season must be a positive year", usecase.ErrInvalidInput)
	}
	return season, nil
}
