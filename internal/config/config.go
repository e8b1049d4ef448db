package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kyak15/soccer-analytics/internal/platform/logging"
)

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	DBHost            string
	DBPort            int
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	FotMobBaseURL    string
	FotMobLeagueID   int
	FotMobLeagueSlug string

	BrowserHeadless          bool
	BrowserUserAgent         string
	BrowserExecPath          string
	BrowserNavigationTimeout time.Duration

	DiscoverySettleDelay time.Duration
	DiscoveryConcurrency int
	DiscoveryCacheTTL    time.Duration

	CaptureSettleDelay           time.Duration
	CaptureCircuitEnabled        bool
	CaptureCircuitFailureCount   int
	CaptureCircuitOpenTimeout    time.Duration
	CaptureCircuitHalfOpenMaxReq int

	PipelineWorkers  int
	PipelineReuseRaw bool

	RawArtifactDir       string
	TransformArtifactDir string

	RedisEnabled bool
	RedisURL     string
	RedisStream  string
	RedisMaxLen  int64

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	dbPort, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_PORT: %w", err)
	}
	if dbPort < 1 || dbPort > 65535 {
		return Config{}, fmt.Errorf("DB_PORT must be between 1 and 65535")
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	dbMaxIdleConns, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	if dbMaxIdleConns < 0 {
		return Config{}, fmt.Errorf("DB_MAX_IDLE_CONNS must be >= 0")
	}
	dbConnMaxLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CONN_MAX_LIFETIME: %w", err)
	}
	dbConnMaxIdleTime, err := time.ParseDuration(getEnv("DB_CONN_MAX_IDLE_TIME", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CONN_MAX_IDLE_TIME: %w", err)
	}

	leagueID, err := getEnvAsInt("FOTMOB_LEAGUE_ID", 47)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOTMOB_LEAGUE_ID: %w", err)
	}
	if leagueID <= 0 {
		return Config{}, fmt.Errorf("FOTMOB_LEAGUE_ID must be > 0")
	}

	browserHeadless, err := strconv.ParseBool(getEnv("BROWSER_HEADLESS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BROWSER_HEADLESS: %w", err)
	}
	browserNavTimeout, err := time.ParseDuration(getEnv("BROWSER_NAVIGATION_TIMEOUT", "45s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BROWSER_NAVIGATION_TIMEOUT: %w", err)
	}
	if browserNavTimeout <= 0 {
		return Config{}, fmt.Errorf("BROWSER_NAVIGATION_TIMEOUT must be > 0")
	}

	discoverySettle, err := time.ParseDuration(getEnv("DISCOVERY_SETTLE_DELAY", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DISCOVERY_SETTLE_DELAY: %w", err)
	}
	if discoverySettle < 0 {
		return Config{}, fmt.Errorf("DISCOVERY_SETTLE_DELAY must be >= 0")
	}
	discoveryConcurrency, err := getEnvAsInt("DISCOVERY_CONCURRENCY", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse DISCOVERY_CONCURRENCY: %w", err)
	}
	if discoveryConcurrency < 1 {
		return Config{}, fmt.Errorf("DISCOVERY_CONCURRENCY must be >= 1")
	}
	discoveryCacheTTL, err := time.ParseDuration(getEnv("DISCOVERY_CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DISCOVERY_CACHE_TTL: %w", err)
	}
	if discoveryCacheTTL < 0 {
		return Config{}, fmt.Errorf("DISCOVERY_CACHE_TTL must be >= 0")
	}

	captureSettle, err := time.ParseDuration(getEnv("CAPTURE_SETTLE_DELAY", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CAPTURE_SETTLE_DELAY: %w", err)
	}
	if captureSettle < 0 {
		return Config{}, fmt.Errorf("CAPTURE_SETTLE_DELAY must be >= 0")
	}
	captureCircuitEnabled, err := strconv.ParseBool(getEnv("CAPTURE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CAPTURE_CIRCUIT_ENABLED: %w", err)
	}
	captureCircuitFailureCount, err := getEnvAsInt("CAPTURE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CAPTURE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if captureCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CAPTURE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	captureCircuitOpenTimeout, err := time.ParseDuration(getEnv("CAPTURE_CIRCUIT_OPEN_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CAPTURE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if captureCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CAPTURE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	captureCircuitHalfOpenMaxReq, err := getEnvAsInt("CAPTURE_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CAPTURE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if captureCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CAPTURE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pipelineWorkers, err := getEnvAsInt("PIPELINE_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_WORKERS: %w", err)
	}
	if pipelineWorkers < 1 {
		return Config{}, fmt.Errorf("PIPELINE_WORKERS must be >= 1")
	}
	pipelineReuseRaw, err := strconv.ParseBool(getEnv("PIPELINE_REUSE_RAW", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_REUSE_RAW: %w", err)
	}

	redisEnabled, err := strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	redisURL := strings.TrimSpace(getEnv("REDIS_URL", ""))
	if redisEnabled && redisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when REDIS_ENABLED=true")
	}
	redisMaxLen, err := getEnvAsInt("REDIS_STREAM_MAXLEN", 10000)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_STREAM_MAXLEN: %w", err)
	}
	if redisMaxLen < 0 {
		return Config{}, fmt.Errorf("REDIS_STREAM_MAXLEN must be >= 0")
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

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "soccer-analytics-pipeline"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       logLevel,

		DBHost:            strings.TrimSpace(getEnv("DB_HOST", "localhost")),
		DBPort:            dbPort,
		DBName:            strings.TrimSpace(os.Getenv("DB_NAME")),
		DBUser:            strings.TrimSpace(os.Getenv("DB_USER")),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBSSLMode:         strings.TrimSpace(getEnv("DB_SSLMODE", "disable")),
		DBMaxOpenConns:    dbMaxOpenConns,
		DBMaxIdleConns:    dbMaxIdleConns,
		DBConnMaxLifetime: dbConnMaxLifetime,
		DBConnMaxIdleTime: dbConnMaxIdleTime,

		FotMobBaseURL:    strings.TrimSpace(getEnv("FOTMOB_BASE_URL", "https://www.fotmob.com")),
		FotMobLeagueID:   leagueID,
		FotMobLeagueSlug: strings.TrimSpace(getEnv("FOTMOB_LEAGUE_SLUG", "premier-league")),

		BrowserHeadless:          browserHeadless,
		BrowserUserAgent:         strings.TrimSpace(getEnv("BROWSER_USER_AGENT", "")),
		BrowserExecPath:          strings.TrimSpace(getEnv("BROWSER_EXEC_PATH", "")),
		BrowserNavigationTimeout: browserNavTimeout,

		DiscoverySettleDelay: discoverySettle,
		DiscoveryConcurrency: discoveryConcurrency,
		DiscoveryCacheTTL:    discoveryCacheTTL,

		CaptureSettleDelay:           captureSettle,
		CaptureCircuitEnabled:        captureCircuitEnabled,
		CaptureCircuitFailureCount:   captureCircuitFailureCount,
		CaptureCircuitOpenTimeout:    captureCircuitOpenTimeout,
		CaptureCircuitHalfOpenMaxReq: captureCircuitHalfOpenMaxReq,

		PipelineWorkers:  pipelineWorkers,
		PipelineReuseRaw: pipelineReuseRaw,

		RawArtifactDir:       strings.TrimSpace(getEnv("ARTIFACT_RAW_DIR", "scraper/extract/raw")),
		TransformArtifactDir: strings.TrimSpace(getEnv("ARTIFACT_TRANSFORM_DIR", "scraper/transform/ready")),

		RedisEnabled: redisEnabled,
		RedisURL:     redisURL,
		RedisStream:  strings.TrimSpace(getEnv("REDIS_STREAM", "soccer.pipeline.matches")),
		RedisMaxLen:  int64(redisMaxLen),

		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.RawArtifactDir == "" || cfg.TransformArtifactDir == "" {
		return Config{}, fmt.Errorf("ARTIFACT_RAW_DIR and ARTIFACT_TRANSFORM_DIR cannot be empty")
	}

	return cfg, nil
}

// DatabaseURL builds the Postgres connection URL. It fails before any
// connection attempt when credentials are missing.
func (c Config) DatabaseURL() (string, error) {
	var missing []string
	if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("database configuration missing: %s", strings.Join(missing, ", "))
	}

	host := c.DBHost
	if host == "" {
		host = "localhost"
	}
	port := c.DBPort
	if port == 0 {
		port = 5432
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.DBSSLMode}}.Encode()
	}
	return u.String(), nil
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
