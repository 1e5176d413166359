package common

// SystemPrefix marks backend-owned collections (e.g. "_superusers").
// Collections whose name starts with it are never dumped.
const SystemPrefix = "_"

// AuthorizationHeaderName carries the admin token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// Environment variables consulted by the configuration layer.
const (
	EnvURL       = "PB_URL"
	EnvEmail     = "PB_ADMIN_EMAIL"
	EnvPassword  = "PB_ADMIN_PASSWORD"
	EnvLogLevel  = "PBMIGRATE_LOG_LEVEL"
	EnvLogFormat = "PBMIGRATE_LOG_FORMAT"
	EnvJournal   = "PBMIGRATE_JOURNAL"
)
