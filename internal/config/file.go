package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mrchypark/pocketbase-go-skill/internal/timex"
)

// fileConfig is the on-disk shape of a config file. Zero values mean
// "not set" except for JournalPath, where an explicit empty string turns the
// journal off.
type fileConfig struct {
	URL            string         `json:"url" toml:"url"`
	Email          string         `json:"email" toml:"email"`
	Password       string         `json:"password" toml:"password"`
	Schema         string         `json:"schema" toml:"schema"`
	RequestTimeout timex.Duration `json:"request_timeout" toml:"request_timeout"`
	HealthAttempts int            `json:"health_attempts" toml:"health_attempts"`
	HealthInterval timex.Duration `json:"health_interval" toml:"health_interval"`
	PageSize       int            `json:"page_size" toml:"page_size"`
	JournalPath    *string        `json:"journal_path" toml:"journal_path"`
	LogLevel       string         `json:"log_level" toml:"log_level"`
	LogFormat      string         `json:"log_format" toml:"log_format"`
	S3             fileS3         `json:"s3" toml:"s3"`
}

type fileS3 struct {
	Region    string `json:"region" toml:"region"`
	Endpoint  string `json:"endpoint" toml:"endpoint"`
	AccessKey string `json:"access_key" toml:"access_key"`
	SecretKey string `json:"secret_key" toml:"secret_key"`
}

func parseFile(cfg *Config, path string) error {
	var (
		fc  fileConfig
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(path, &fc)
	} else {
		err = decodeJSON(path, &fc)
	}
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func decodeJSON(path string, fc *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(fc)
}

func decodeTOML(path string, fc *fileConfig) error {
	meta, err := toml.DecodeFile(path, fc)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString(&cfg.URL, fc.URL)
	setString(&cfg.Email, fc.Email)
	setString(&cfg.Password, fc.Password)
	setString(&cfg.SchemaPath, fc.Schema)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)

	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.HealthInterval.Duration != 0 {
		cfg.HealthInterval = fc.HealthInterval.Duration
	}
	if fc.HealthAttempts != 0 {
		cfg.HealthAttempts = fc.HealthAttempts
	}
	if fc.PageSize != 0 {
		cfg.PageSize = fc.PageSize
	}
	if fc.JournalPath != nil {
		cfg.JournalPath = *fc.JournalPath
	}

	setString(&cfg.S3.Region, fc.S3.Region)
	setString(&cfg.S3.Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, fc.S3.SecretKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
