package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	for _, key := range []string{
		"APP_ENV", "WAREHOUSE_DRIVER", "ODDSJAM_BASE_URL", "ODDSJAM_TIMEOUT", "ODDSJAM_MAX_PAGES",
		"SPORTRADAR_BASE_URL", "FIXTURES_BATCH_SIZE", "ODDS_BATCH_SIZE", "REFERENCE_BATCH_SIZE",
		"UPTRACE_ENABLED", "PYROSCOPE_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.WarehouseDriver != WarehouseBigQuery {
		t.Fatalf("unexpected warehouse driver: %s", cfg.WarehouseDriver)
	}
	if cfg.OddsJamBaseURL != "https://api.opticodds.com/api/v3" {
		t.Fatalf("unexpected OddsJamBaseURL: %s", cfg.OddsJamBaseURL)
	}
	if cfg.SportradarBaseURL != "https://api.sportradar.com/tennis/trial/v3/en" {
		t.Fatalf("unexpected SportradarBaseURL: %s", cfg.SportradarBaseURL)
	}
	if cfg.OddsJamTimeout != 60*time.Second || cfg.OddsJamMaxPages != 50 {
		t.Fatalf("unexpected oddsjam defaults: timeout=%s max_pages=%d", cfg.OddsJamTimeout, cfg.OddsJamMaxPages)
	}
	if cfg.FixturesBatchSize != 500 || cfg.OddsBatchSize != 10000 || cfg.ReferenceBatchSize != 500 {
		t.Fatalf("unexpected batch sizes: %d/%d/%d", cfg.FixturesBatchSize, cfg.OddsBatchSize, cfg.ReferenceBatchSize)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"WAREHOUSE_DRIVER":  "snowflake",
		"ODDS_BATCH_SIZE":   "0",
		"ODDSJAM_MAX_PAGES": "-1",
		"ODDSJAM_TIMEOUT":   "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("ENV_FILE", "")
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestAccessors_MissingSettingNamesKey(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv(KeyOddsTableID, "")
	t.Setenv(KeyFixturesTableID, "proj.raw.fixtures")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	_, err = cfg.OddsTableID()
	if !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got=%v", err)
	}
	if !strings.Contains(err.Error(), KeyOddsTableID) {
		t.Fatalf("expected error to name %s, got=%v", KeyOddsTableID, err)
	}

	got, err := cfg.FixturesTableID()
	if err != nil || got != "proj.raw.fixtures" {
		t.Fatalf("unexpected fixtures table: %q err=%v", got, err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.env")
	content := "SPORTRADAR_API_KEY=from-file\nODDS_BATCH_SIZE=250\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("APP_ENV", EnvDev)
	// godotenv never overrides variables that are already set, so clear them
	// through t.Setenv first and drop them for the duration of the test.
	t.Setenv(KeySportradarAPIKey, "")
	t.Setenv("ODDS_BATCH_SIZE", "")
	_ = os.Unsetenv(KeySportradarAPIKey)
	_ = os.Unsetenv("ODDS_BATCH_SIZE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	key, err := cfg.SportradarAPIKey()
	if err != nil || key != "from-file" {
		t.Fatalf("expected key from env file, got=%q err=%v", key, err)
	}
	if cfg.OddsBatchSize != 250 {
		t.Fatalf("expected ODDS_BATCH_SIZE from env file, got=%d", cfg.OddsBatchSize)
	}
	if strings.Contains(cfg.Redacted(), "from-file") {
		t.Fatalf("redacted summary leaked a secret: %s", cfg.Redacted())
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing ENV_FILE")
	}
}
