// Package config loads runtime configuration for pbmigrate.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .toml are read as TOML, everything else as JSON.
//  3. Environment: PB_URL, PB_ADMIN_EMAIL, PB_ADMIN_PASSWORD,
//     PBMIGRATE_LOG_LEVEL, PBMIGRATE_LOG_FORMAT, PBMIGRATE_JOURNAL.
//  4. Command-line flags, which override everything else.
//
// # File schema
//
// Intervals use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "url": "http://127.0.0.1:8090",
//	  "email": "admin@example.com",
//	  "schema": "s3://schemas/pb_schema.json",
//	  "request_timeout": "10s",
//	  "health_attempts": 5,
//	  "health_interval": "2s",
//	  "page_size": 200,
//	  "journal_path": ".pbmigrate/journal.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "s3": {"region": "us-east-1", "endpoint": "http://127.0.0.1:9000"}
//	}
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
// An explicitly empty journal_path disables the run journal.
package config
