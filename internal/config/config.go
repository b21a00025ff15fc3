package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/sportsdata-ingest/internal/platform/logging"
)

// ErrMissingSetting is returned by accessors when a required key is unset.
var ErrMissingSetting = errors.New("missing required setting")

const (
	KeyOddsJamAPIKey          = "ODDSJAM_API_KEY"
	KeySportradarAPIKey       = "SPORTRADAR_API_KEY"
	KeyOddsTableID            = "BIGQUERY_TABLE_ID"
	KeyFixturesTableID        = "BIGQUERY_FIXTURES_TABLE_ID"
	KeyCompetitionsTableID    = "BIGQUERY_COMPETITIONS_TABLE_ID"
	KeySeasonsTableID         = "BIGQUERY_SEASONS_TABLE_ID"
	KeyDBURL                  = "DB_URL"
	KeyGoogleCredentialsFile  = "GOOGLE_APPLICATION_CREDENTIALS"
	defaultOddsJamBaseURL     = "https://api.opticodds.com/api/v3"
	defaultSportradarBaseURL  = "https://api.sportradar.com/tennis/trial/v3/en"
	defaultFixturesBatchSize  = 500
	defaultOddsBatchSize      = 10000
	defaultReferenceBatchSize = 500
)

const (
	WarehouseBigQuery = "bigquery"
	WarehousePostgres = "postgres"
	WarehouseMemory   = "memory"
)

// Config stores runtime configuration for one ingestion run. It is built once
// by Load and passed to every component that needs it.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	LogLevel                   logging.Level
	OddsJamBaseURL             string
	OddsJamTimeout             time.Duration
	OddsJamMaxPages            int
	SportradarBaseURL          string
	SportradarTimeout          time.Duration
	WarehouseDriver            string
	BigQueryProjectID          string
	GoogleCredentialsFile      string
	FixturesBatchSize          int
	OddsBatchSize              int
	ReferenceBatchSize         int
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeUploadRate        time.Duration
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string

	oddsJamAPIKey       string
	sportradarAPIKey    string
	oddsTableID         string
	fixturesTableID     string
	competitionsTableID string
	seasonsTableID      string
	dbURL               string
}

// Load reads .env (ENV_FILE overrides the path) and the process environment.
// Format errors fail here; required-but-unset keys fail at first use through
// the accessors below.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load ENV_FILE %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	oddsJamTimeout, err := getEnvAsDuration("ODDSJAM_TIMEOUT", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	oddsJamMaxPages, err := getEnvAsInt("ODDSJAM_MAX_PAGES", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse ODDSJAM_MAX_PAGES: %w", err)
	}
	if oddsJamMaxPages < 1 {
		return Config{}, fmt.Errorf("ODDSJAM_MAX_PAGES must be >= 1")
	}
	sportradarTimeout, err := getEnvAsDuration("SPORTRADAR_TIMEOUT", 60*time.Second)
	if err != nil {
		return Config{}, err
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("WAREHOUSE_DRIVER", WarehouseBigQuery)))
	switch driver {
	case WarehouseBigQuery, WarehousePostgres, WarehouseMemory:
	default:
		return Config{}, fmt.Errorf("invalid WAREHOUSE_DRIVER %q: valid values are %s, %s, %s", driver, WarehouseBigQuery, WarehousePostgres, WarehouseMemory)
	}

	fixturesBatchSize, err := getEnvAsPositiveInt("FIXTURES_BATCH_SIZE", defaultFixturesBatchSize)
	if err != nil {
		return Config{}, err
	}
	oddsBatchSize, err := getEnvAsPositiveInt("ODDS_BATCH_SIZE", defaultOddsBatchSize)
	if err != nil {
		return Config{}, err
	}
	referenceBatchSize, err := getEnvAsPositiveInt("REFERENCE_BATCH_SIZE", defaultReferenceBatchSize)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
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
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "sportsdata-ingest"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		OddsJamBaseURL:             strings.TrimRight(strings.TrimSpace(getEnv("ODDSJAM_BASE_URL", defaultOddsJamBaseURL)), "/"),
		OddsJamTimeout:             oddsJamTimeout,
		OddsJamMaxPages:            oddsJamMaxPages,
		SportradarBaseURL:          strings.TrimRight(strings.TrimSpace(getEnv("SPORTRADAR_BASE_URL", defaultSportradarBaseURL)), "/"),
		SportradarTimeout:          sportradarTimeout,
		WarehouseDriver:            driver,
		BigQueryProjectID:          strings.TrimSpace(getEnv("BIGQUERY_PROJECT_ID", "")),
		GoogleCredentialsFile:      strings.TrimSpace(getEnv(KeyGoogleCredentialsFile, "")),
		FixturesBatchSize:          fixturesBatchSize,
		OddsBatchSize:              oddsBatchSize,
		ReferenceBatchSize:         referenceBatchSize,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeUploadRate:        pyroscopeUploadRate,
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		oddsJamAPIKey:              strings.TrimSpace(getEnv(KeyOddsJamAPIKey, "")),
		sportradarAPIKey:           strings.TrimSpace(getEnv(KeySportradarAPIKey, "")),
		oddsTableID:                strings.TrimSpace(getEnv(KeyOddsTableID, "")),
		fixturesTableID:            strings.TrimSpace(getEnv(KeyFixturesTableID, "")),
		competitionsTableID:        strings.TrimSpace(getEnv(KeyCompetitionsTableID, "")),
		seasonsTableID:             strings.TrimSpace(getEnv(KeySeasonsTableID, "")),
		dbURL:                      strings.TrimSpace(getEnv(KeyDBURL, "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func (c Config) OddsJamAPIKey() (string, error) {
	return require(KeyOddsJamAPIKey, c.oddsJamAPIKey)
}

func (c Config) SportradarAPIKey() (string, error) {
	return require(KeySportradarAPIKey, c.sportradarAPIKey)
}

func (c Config) OddsTableID() (string, error) {
	return require(KeyOddsTableID, c.oddsTableID)
}

func (c Config) FixturesTableID() (string, error) {
	return require(KeyFixturesTableID, c.fixturesTableID)
}

func (c Config) CompetitionsTableID() (string, error) {
	return require(KeyCompetitionsTableID, c.competitionsTableID)
}

func (c Config) SeasonsTableID() (string, error) {
	return require(KeySeasonsTableID, c.seasonsTableID)
}

func (c Config) DBURL() (string, error) {
	return require(KeyDBURL, c.dbURL)
}

// Redacted summarises the configuration without secrets.
func (c Config) Redacted() string {
	return fmt.Sprintf(
		"env=%s warehouse=%s oddsjam_base_url=%s oddsjam_key=%s sportradar_base_url=%s sportradar_key=%s credentials_file=%s",
		c.AppEnv,
		c.WarehouseDriver,
		c.OddsJamBaseURL,
		presence(c.oddsJamAPIKey),
		c.SportradarBaseURL,
		presence(c.sportradarAPIKey),
		presence(c.GoogleCredentialsFile),
	)
}

func require(key, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: %s is not set (add it to the environment or .env)", ErrMissingSetting, key)
	}
	return value, nil
}

func presence(value string) string {
	if value == "" {
		return "[empty]"
	}
	return "[set]"
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

func getEnvAsPositiveInt(key string, fallback int) (int, error) {
	value, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value < 1 {
		return 0, fmt.Errorf("%s must be >= 1", key)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
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
