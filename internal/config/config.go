package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/courtstats/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	StoreDriver             string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	StorageTimeout          time.Duration
	CacheEnabled            bool
	CacheTTL                time.Duration
	RedisEnabled            bool
	RedisURL                string
	RedisStream             string
	RedisStreamMaxLen       int
	RedisCircuitEnabled     bool
	RedisCircuitFailures    int
	RedisCircuitOpenTimeout time.Duration
	RedisCircuitHalfOpenMax int
	RecalcMaxWorkers        int
	RollupMaxWorkers        int
	StreamBuffer            int
	CORSAllowedOrigins      []string
	SwaggerEnabled          bool
	InternalToken           string
	PprofEnabled            bool
	PprofAddr               string
	UptraceEnabled          bool
	UptraceDSN              string
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeBasicAuthUser  string
	PyroscopeBasicAuthPass  string
	PyroscopeUploadRate     time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	storeDriver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	switch storeDriver {
	case StoreMemory, StorePostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", storeDriver, StoreMemory, StorePostgres)
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeDriver == StorePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", StorePostgres)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	storageTimeout, err := time.ParseDuration(getEnv("STORAGE_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STORAGE_TIMEOUT: %w", err)
	}
	if storageTimeout <= 0 {
		return Config{}, fmt.Errorf("STORAGE_TIMEOUT must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	redisEnabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	redisURL := strings.TrimSpace(getEnv("REDIS_URL", ""))
	if redisEnabled && redisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when REDIS_ENABLED=true")
	}
	redisStreamMaxLen, err := getEnvAsInt("REDIS_STREAM_MAXLEN", 100000)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_STREAM_MAXLEN: %w", err)
	}
	if redisStreamMaxLen < 0 {
		return Config{}, fmt.Errorf("REDIS_STREAM_MAXLEN must be >= 0")
	}

	redisCircuitEnabled, err := strconv.ParseBool(getEnv("REDIS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_ENABLED: %w", err)
	}
	redisCircuitFailures, err := getEnvAsInt("REDIS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if redisCircuitFailures < 1 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	redisCircuitOpenTimeout, err := time.ParseDuration(getEnv("REDIS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if redisCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	redisCircuitHalfOpenMax, err := getEnvAsInt("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if redisCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	recalcMaxWorkers, err := getEnvAsInt("RECALC_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RECALC_MAX_WORKERS: %w", err)
	}
	if recalcMaxWorkers < 1 {
		return Config{}, fmt.Errorf("RECALC_MAX_WORKERS must be >= 1")
	}
	rollupMaxWorkers, err := getEnvAsInt("ROLLUP_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROLLUP_MAX_WORKERS: %w", err)
	}
	if rollupMaxWorkers < 1 {
		return Config{}, fmt.Errorf("ROLLUP_MAX_WORKERS must be >= 1")
	}
	streamBuffer, err := getEnvAsInt("STREAM_BUFFER", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAM_BUFFER: %w", err)
	}
	if streamBuffer < 1 {
		return Config{}, fmt.Errorf("STREAM_BUFFER must be >= 1")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	serviceName := getEnv("APP_SERVICE_NAME", "courtstats-api")

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             serviceName,
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		StoreDriver:             storeDriver,
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DBMaxOpenConns:          dbMaxOpenConns,
		StorageTimeout:          storageTimeout,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		RedisEnabled:            redisEnabled,
		RedisURL:                redisURL,
		RedisStream:             getEnv("REDIS_STREAM", "courtstats.stat_changes"),
		RedisStreamMaxLen:       redisStreamMaxLen,
		RedisCircuitEnabled:     redisCircuitEnabled,
		RedisCircuitFailures:    redisCircuitFailures,
		RedisCircuitOpenTimeout: redisCircuitOpenTimeout,
		RedisCircuitHalfOpenMax: redisCircuitHalfOpenMax,
		RecalcMaxWorkers:        recalcMaxWorkers,
		RollupMaxWorkers:        rollupMaxWorkers,
		StreamBuffer:            streamBuffer,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:          swaggerEnabled,
		InternalToken:           strings.TrimSpace(getEnv("INTERNAL_TOKEN", "")),
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAppName:        getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:      getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:  getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPass:  getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:     pyroscopeUploadRate,
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	level, _ := logging.ParseLevel(v)
	return level
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
