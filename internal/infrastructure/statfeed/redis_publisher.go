package statfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
	"github.com/riskibarqy/courtstats/internal/platform/logging"
	"github.com/riskibarqy/courtstats/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
)

var errStreamTransient = crerr.New("stat stream transient failure")

const (
	defaultStreamName   = "courtstats.stat_changes"
	defaultStreamMaxLen = 100000
	defaultWriteTimeout = 2 * time.Second
)

type RedisPublisherConfig struct {
	Stream         string
	MaxLen         int64
	WriteTimeout   time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// RedisPublisher appends every change to a Redis stream for out-of-process readers.
type RedisPublisher struct {
	client         redis.UniversalClient
	stream         string
	maxLen         int64
	writeTimeout   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewRedisPublisher(client redis.UniversalClient, cfg RedisPublisherConfig, logger *logging.Logger) *RedisPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		stream = defaultStreamName
	}
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &RedisPublisher{
		client:         client,
		stream:         stream,
		maxLen:         maxLen,
		writeTimeout:   timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreakerFromConfig(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Publish implements boxscore.ChangePublisher.
func (p *RedisPublisher) Publish(ctx context.Context, change boxscore.Change) error {
	if !p.circuitEnabled {
		return p.append(ctx, change)
	}

	err := p.breaker.Do(ctx, func(ctx context.Context) error {
		return p.append(ctx, change)
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		p.logger.WarnContext(ctx, "stat stream circuit breaker rejected change", "state", p.breaker.State(), "kind", change.Kind, "game_id", change.GameID)
		return fmt.Errorf("stat stream is temporarily unavailable: %w", err)
	}
	return err
}

func (p *RedisPublisher) append(ctx context.Context, change boxscore.Change) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeChange(buf, change); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: streamValues(change, buf.String()),
	}).Err()
	if err != nil {
		return crerr.Mark(crerr.Wrapf(err, "xadd %s kind=%s game_id=%s", p.stream, change.Kind, change.GameID), errStreamTransient)
	}
	return nil
}

func (p *RedisPublisher) State() resilience.CircuitState {
	return p.breaker.State()
}

func encodeChange(buf *bytebufferpool.ByteBuffer, change boxscore.Change) error {
	raw, err := sonic.Marshal(change)
	if err != nil {
		return crerr.Wrap(err, "marshal stat change")
	}
	_, _ = buf.Write(raw)
	return nil
}

func streamValues(change boxscore.Change, payload string) map[string]any {
	values := map[string]any{
		"kind": string(change.Kind),
		"data": payload,
	}
	if change.GameID != "" {
		values["game_id"] = change.GameID
	}
	if change.SeasonYear != 0 {
		values["season_year"] = change.SeasonYear
	}
	return values
}

// DecodeChange parses the data field of a stream entry written by RedisPublisher.
func DecodeChange(values map[string]any) (boxscore.Change, error) {
	raw, ok := values["data"].(string)
	if !ok {
		return boxscore.Change{}, crerr.Newf("stream entry has no data field")
	}
	var change boxscore.Change
	if err := sonic.UnmarshalString(raw, &change); err != nil {
		return boxscore.Change{}, crerr.Wrap(err, "unmarshal stat change")
	}
	return change, nil
}
