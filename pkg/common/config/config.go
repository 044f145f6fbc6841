package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/synaptica-ai/hospital-dataset/pkg/common/apperr"
)

const (
	BackendCLI   = "cli"
	BackendGoGit = "gogit"
)

type Config struct {
	// Dataset
	RowCount      int    `yaml:"row_count" validate:"gt=0"`
	OutputPath    string `yaml:"output_path" validate:"required"`
	RandomSeed    uint64 `yaml:"random_seed"`
	FakerSeed     uint64 `yaml:"faker_seed" validate:"gt=0"`
	CommitMessage string `yaml:"commit_message" validate:"required"`

	// Version control
	PublishEnabled bool   `yaml:"publish_enabled"`
	VCSBackend     string `yaml:"vcs_backend" validate:"oneof=cli gogit"`
	GitBinary      string `yaml:"git_binary" validate:"required_if=VCSBackend cli"`
	GitWorkDir     string `yaml:"git_workdir" validate:"required"`
	GitRemote      string `yaml:"git_remote" validate:"required"`
	GitBranch      string `yaml:"git_branch" validate:"required"`
	GitUsername    string `yaml:"git_username"`
	GitToken       string `yaml:"git_token"`
	GitAuthorName  string `yaml:"git_author_name"`
	GitAuthorEmail string `yaml:"git_author_email" validate:"omitempty,email"`

	// Archive (Postgres)
	ArchiveEnabled   bool   `yaml:"archive_enabled"`
	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDB       string `yaml:"postgres_db"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`

	// Run manifests (Redis)
	ManifestEnabled bool          `yaml:"manifest_enabled"`
	RedisHost       string        `yaml:"redis_host"`
	RedisPort       string        `yaml:"redis_port"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db" validate:"gte=0"`
	ManifestTTL     time.Duration `yaml:"manifest_ttl"`

	// Events (Kafka)
	EventsEnabled bool     `yaml:"events_enabled"`
	KafkaBrokers  []string `yaml:"kafka_brokers" validate:"required_if=EventsEnabled true"`
	EventsTopic   string   `yaml:"events_topic" validate:"required_if=EventsEnabled true"`

	MetricsTextfile string `yaml:"metrics_textfile"`
}

func defaults() *Config {
	return &Config{
		RowCount:      1000,
		OutputPath:    "hospital_dataset.csv",
		RandomSeed:    42,
		FakerSeed:     42,
		CommitMessage: "Add generated hospital dataset",

		PublishEnabled: true,
		VCSBackend:     BackendCLI,
		GitBinary:      "git",
		GitWorkDir:     ".",
		GitRemote:      "origin",
		GitBranch:      "main",

		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresUser:    "synaptica",
		PostgresDB:      "synaptica",
		PostgresSSLMode: "disable",

		RedisHost:   "localhost",
		RedisPort:   "6379",
		ManifestTTL: 30 * 24 * time.Hour,

		KafkaBrokers: []string{"localhost:9092"},
		EventsTopic:  "dataset.events",
	}
}

// Load builds the configuration from defaults, the optional CONFIG_FILE yaml
// overlay and finally the environment, then validates the result.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		content, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, apperr.Wrap(apperr.IOError, "config", err, fmt.Sprintf("failed to read config file %s", path))
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, apperr.Wrap(apperr.InvalidArgument, "config", err, fmt.Sprintf("failed to parse config file %s", path))
		}
	}

	if err := checkTypedEnv(); err != nil {
		return nil, err
	}

	cfg.RowCount = getIntEnv("ROW_COUNT", cfg.RowCount)
	cfg.OutputPath = getEnv("OUTPUT_PATH", cfg.OutputPath)
	cfg.RandomSeed = getUintEnv("RANDOM_SEED", cfg.RandomSeed)
	cfg.FakerSeed = getUintEnv("FAKER_SEED", cfg.FakerSeed)
	cfg.CommitMessage = getEnv("COMMIT_MESSAGE", cfg.CommitMessage)

	cfg.PublishEnabled = getBoolEnv("PUBLISH_ENABLED", cfg.PublishEnabled)
	cfg.VCSBackend = strings.ToLower(getEnv("VCS_BACKEND", cfg.VCSBackend))
	cfg.GitBinary = getEnv("GIT_BINARY", cfg.GitBinary)
	cfg.GitWorkDir = getEnv("GIT_WORKDIR", cfg.GitWorkDir)
	cfg.GitRemote = getEnv("GIT_REMOTE", cfg.GitRemote)
	cfg.GitBranch = getEnv("GIT_BRANCH", cfg.GitBranch)
	cfg.GitUsername = getEnv("GIT_USERNAME", cfg.GitUsername)
	cfg.GitToken = getEnv("GIT_TOKEN", cfg.GitToken)
	cfg.GitAuthorName = getEnv("GIT_AUTHOR_NAME", cfg.GitAuthorName)
	cfg.GitAuthorEmail = getEnv("GIT_AUTHOR_EMAIL", cfg.GitAuthorEmail)

	cfg.ArchiveEnabled = getBoolEnv("ARCHIVE_ENABLED", cfg.ArchiveEnabled)
	cfg.PostgresHost = getEnv("POSTGRES_HOST", cfg.PostgresHost)
	cfg.PostgresPort = getEnv("POSTGRES_PORT", cfg.PostgresPort)
	cfg.PostgresUser = getEnv("POSTGRES_USER", cfg.PostgresUser)
	cfg.PostgresPassword = getEnv("POSTGRES_PASSWORD", cfg.PostgresPassword)
	cfg.PostgresDB = getEnv("POSTGRES_DB", cfg.PostgresDB)
	cfg.PostgresSSLMode = getEnv("POSTGRES_SSLMODE", cfg.PostgresSSLMode)

	cfg.ManifestEnabled = getBoolEnv("MANIFEST_ENABLED", cfg.ManifestEnabled)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getIntEnv("REDIS_DB", cfg.RedisDB)
	cfg.ManifestTTL = getDuration("MANIFEST_TTL", cfg.ManifestTTL)

	cfg.EventsEnabled = getBoolEnv("EVENTS_ENABLED", cfg.EventsEnabled)
	cfg.KafkaBrokers = getStringSliceEnv("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.EventsTopic = getEnv("DATASET_EVENTS_TOPIC", cfg.EventsTopic)

	cfg.MetricsTextfile = getEnv("METRICS_TEXTFILE", cfg.MetricsTextfile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "config", err, "invalid configuration")
	}
	return nil
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost,
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresDB,
		c.PostgresPort,
		c.PostgresSSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func parseInt(v string) error {
	_, err := strconv.Atoi(v)
	return err
}

func parseUint(v string) error {
	_, err := strconv.ParseUint(v, 10, 64)
	return err
}

func parseBool(v string) error {
	_, err := strconv.ParseBool(v)
	return err
}

func parseDuration(v string) error {
	_, err := time.ParseDuration(v)
	return err
}

// typedEnv lists the non-string keys; the get*Env helpers fall back to the
// default on a parse error, so malformed values are rejected up front.
var typedEnv = []struct {
	key   string
	parse func(string) error
}{
	{"ROW_COUNT", parseInt},
	{"RANDOM_SEED", parseUint},
	{"FAKER_SEED", parseUint},
	{"PUBLISH_ENABLED", parseBool},
	{"ARCHIVE_ENABLED", parseBool},
	{"MANIFEST_ENABLED", parseBool},
	{"REDIS_DB", parseInt},
	{"MANIFEST_TTL", parseDuration},
	{"EVENTS_ENABLED", parseBool},
}

func checkTypedEnv() error {
	var bad []string
	for _, e := range typedEnv {
		value := os.Getenv(e.key)
		if value == "" {
			continue
		}
		if err := e.parse(value); err != nil {
			bad = append(bad, fmt.Sprintf("%s=%q", e.key, value))
		}
	}
	if len(bad) > 0 {
		return apperr.New(apperr.InvalidArgument, "config", "malformed environment values: "+strings.Join(bad, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getUintEnv(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
