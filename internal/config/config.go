package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string        `validate:"oneof=dev stage prod"`
	ServiceName                   string        `validate:"required"`
	ServiceVersion                string        `validate:"required"`
	HTTPAddr                      string        `validate:"required"`
	CORSAllowedOrigins            []string      `validate:"min=1,dive,required"`
	ReadTimeout                   time.Duration `validate:"gt=0"`
	WriteTimeout                  time.Duration `validate:"gt=0"`
	PprofEnabled                  bool
	PprofAddr                     string `validate:"required_if=PprofEnabled true"`
	SwaggerEnabled                bool
	RankingsBaseURL               string        `validate:"required,url"`
	RankingsTimeout               time.Duration `validate:"gt=0"`
	RankingsMaxRetries            int           `validate:"gte=0"`
	RankingsCircuitEnabled        bool
	RankingsCircuitFailureCount   int           `validate:"gte=1"`
	RankingsCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	RankingsCircuitHalfOpenMaxReq int           `validate:"gte=1"`
	RankingsDefaultYear           int
	RankingsFetchWorkers          int           `validate:"gte=1"`
	ViewIdleTTL                   time.Duration `validate:"gt=0"`
	ViewSweepInterval             time.Duration `validate:"gt=0"`
	UptraceEnabled                bool
	UptraceDSN                    string `validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled            bool
	BetterStackEnabled            bool
	BetterStackEndpoint           string `validate:"required_if=BetterStackEnabled true"`
	BetterStackToken              string
	BetterStackTimeout            time.Duration `validate:"gt=0"`
	BetterStackMinLevel           logging.Level
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName              string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration `validate:"gt=0"`
	LogLevel                      logging.Level
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

	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	rankingsTimeout, err := time.ParseDuration(getEnv("RANKINGS_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_TIMEOUT: %w", err)
	}
	rankingsMaxRetries, err := getEnvAsInt("RANKINGS_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_MAX_RETRIES: %w", err)
	}
	rankingsCircuitEnabled, err := strconv.ParseBool(getEnv("RANKINGS_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_CIRCUIT_ENABLED: %w", err)
	}
	rankingsCircuitFailureCount, err := getEnvAsInt("RANKINGS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	rankingsCircuitOpenTimeout, err := time.ParseDuration(getEnv("RANKINGS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	rankingsCircuitHalfOpenMaxReq, err := getEnvAsInt("RANKINGS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	rankingsDefaultYear, err := getEnvAsInt("RANKINGS_DEFAULT_YEAR", 2024)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_DEFAULT_YEAR: %w", err)
	}
	rankingsFetchWorkers, err := getEnvAsInt("RANKINGS_FETCH_WORKERS", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKINGS_FETCH_WORKERS: %w", err)
	}

	viewIdleTTL, err := time.ParseDuration(getEnv("VIEW_IDLE_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VIEW_IDLE_TTL: %w", err)
	}
	viewSweepInterval, err := time.ParseDuration(getEnv("VIEW_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VIEW_SWEEP_INTERVAL: %w", err)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   strings.TrimSpace(getEnv("APP_SERVICE_NAME", "goal-archive-web")),
		ServiceVersion:                strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:                      strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":3000")),
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		SwaggerEnabled:                swaggerEnabled,
		RankingsBaseURL:               strings.TrimRight(strings.TrimSpace(getEnv("RANKINGS_BASE_URL", "http://localhost:90")), "/"),
		RankingsTimeout:               rankingsTimeout,
		RankingsMaxRetries:            rankingsMaxRetries,
		RankingsCircuitEnabled:        rankingsCircuitEnabled,
		RankingsCircuitFailureCount:   rankingsCircuitFailureCount,
		RankingsCircuitOpenTimeout:    rankingsCircuitOpenTimeout,
		RankingsCircuitHalfOpenMaxReq: rankingsCircuitHalfOpenMaxReq,
		RankingsDefaultYear:           rankingsDefaultYear,
		RankingsFetchWorkers:          rankingsFetchWorkers,
		ViewIdleTTL:                   viewIdleTTL,
		ViewSweepInterval:             viewSweepInterval,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		UptraceLogsEnabled:            uptraceLogsEnabled,
		BetterStackEnabled:            betterStackEnabled,
		BetterStackEndpoint:           strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", "")),
		BetterStackToken:              strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:            betterStackTimeout,
		BetterStackMinLevel:           parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "warn")),
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
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
