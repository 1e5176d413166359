package config

import (
	"fmt"
	"time"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/flagx"
)

// S3Config holds object store settings for s3:// schema locations.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings shared by all commands.
type Config struct {
	URL      string
	Email    string
	Password string

	SchemaPath string

	RequestTimeout time.Duration
	HealthAttempts int
	HealthInterval time.Duration
	PageSize       int

	JournalPath string
	LogLevel    string
	LogFormat   string

	S3 S3Config
}

// LoadDefaults populates c with the defaults of a local backend.
func (c *Config) LoadDefaults() {
	c.URL = "http://127.0.0.1:8090"
	c.SchemaPath = "pb_schema.json"
	c.RequestTimeout = 10 * time.Second
	c.HealthAttempts = 5
	c.HealthInterval = 2 * time.Second
	c.PageSize = 200
	c.JournalPath = ".pbmigrate/journal.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Command is the subcommand selected on the command line with its options.
type Command struct {
	Name string

	CollectionName string
	CollectionType string
	Collection     string
	FieldJSON      string
	FieldName      string

	Strict bool
	Limit  int
}

// Load builds the Config from defaults, config file, environment and args
// (without the program name), and extracts the subcommand.
func Load(args []string) (*Config, *Command, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, nil, err
		}
	}

	parseEnv(cfg)

	cmd, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, cmd, nil
}

func (c *Config) validate() error {
	switch {
	case c.URL == "":
		return fmt.Errorf("backend url is required: %w", common.ErrInvalidInput)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive: %w", common.ErrInvalidInput)
	case c.HealthAttempts < 1:
		return fmt.Errorf("health attempts must be at least 1: %w", common.ErrInvalidInput)
	case c.HealthInterval < 0:
		return fmt.Errorf("health interval must not be negative: %w", common.ErrInvalidInput)
	case c.PageSize < 1:
		return fmt.Errorf("page size must be at least 1: %w", common.ErrInvalidInput)
	}
	return nil
}
