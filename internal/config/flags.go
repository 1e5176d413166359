package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/flagx"
)

// parseFlags overlays command-line flags on cfg and returns the subcommand.
// The subcommand may come before or after the flags.
//
// Supported flags (one or two dashes):
//
//	--url string          backend base URL
//	--email string        admin identity
//	--password string     admin secret
//	--schema string       schema document location (path or s3://bucket/key)
//	--name string         collection name for create_collection
//	--type string         collection type for create_collection (base, auth, view)
//	--collection string   target collection for field operations
//	--field-json string   field definition for add_field
//	--field-name string   field to remove for delete_field
//	--strict              exit non-zero when any apply step failed
//	--limit int           number of runs shown by history
//	--timeout duration    per-request timeout
//	--journal string      run journal path, empty disables it
//	--log-level string    debug, info, warn or error
//	--log-format string   text, json or console
//	--s3-region string    region for s3:// locations
//	--s3-endpoint string  S3-compatible endpoint for s3:// locations
//	-c, -config string    config file
func parseFlags(cfg *Config, args []string) (*Command, error) {
	name, rest := flagx.SplitCommand(args)

	cmd := &Command{CollectionType: "base", Limit: 10}

	fs := flag.NewFlagSet("pbmigrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.URL, "url", cfg.URL, "backend base URL")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "admin identity")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "admin secret")
	fs.StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "schema document location")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "run journal path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3 endpoint")

	fs.StringVar(&cmd.CollectionName, "name", "", "collection name for create_collection")
	fs.StringVar(&cmd.CollectionType, "type", cmd.CollectionType, "collection type")
	fs.StringVar(&cmd.Collection, "collection", "", "target collection for field operations")
	fs.StringVar(&cmd.FieldJSON, "field-json", "", "JSON definition of the field to add")
	fs.StringVar(&cmd.FieldName, "field-name", "", "name of the field to delete")
	fs.BoolVar(&cmd.Strict, "strict", false, "exit non-zero when any apply step failed")
	fs.IntVar(&cmd.Limit, "limit", cmd.Limit, "number of runs shown by history")

	// already consumed by ConfigFileFlag
	var configFile string
	fs.StringVar(&configFile, "config", "", "config file")
	fs.StringVar(&configFile, "c", "", "config file (short)")

	if err := fs.Parse(rest); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	positional := fs.Args()
	if name == "" && len(positional) > 0 {
		name = positional[0]
		if err := fs.Parse(positional[1:]); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
		}
		positional = fs.Args()
	}
	if len(positional) > 0 {
		return nil, fmt.Errorf("unexpected arguments %q: %w", positional, common.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("command is required: %w", common.ErrInvalidInput)
	}

	cmd.Name = name
	return cmd, nil
}

// Usage describes the command line.
const Usage = `usage: pbmigrate <command> [options]

commands:
  apply               reconcile the backend with the schema document
  dump                write the remote schema to the schema document
  create_collection   create an empty collection (--name, --type)
  add_field           add or update a field (--collection, --field-json)
  delete_field        remove a field (--collection, --field-name)
  history             show recent runs from the journal (--limit)

options:
  --url, --email, --password, --schema, --strict, --timeout,
  --journal, --log-level, --log-format, --s3-region, --s3-endpoint,
  -c/-config <file>
`
