package config

import (
	"os"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// parseEnv overlays settings from the environment. Empty variables count as
// unset, except PBMIGRATE_JOURNAL where empty disables the journal.
func parseEnv(cfg *Config) {
	for name, dst := range map[string]*string{
		common.EnvURL:       &cfg.URL,
		common.EnvEmail:     &cfg.Email,
		common.EnvPassword:  &cfg.Password,
		common.EnvLogLevel:  &cfg.LogLevel,
		common.EnvLogFormat: &cfg.LogFormat,
	} {
		if v, ok := lookupEnv(name); ok {
			setString(dst, v)
		}
	}

	if v, ok := lookupEnv(common.EnvJournal); ok {
		cfg.JournalPath = v
	}
}
