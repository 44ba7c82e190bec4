package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// SVETLINE_-prefixed names so the prefix stays empty here.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "SVETLINE_APP_ENV"
	EnvPort     = "SVETLINE_APP_PORT"
	EnvDBDSN    = "SVETLINE_DB_DSN"
	EnvDBHost   = "SVETLINE_DB_HOST"
	EnvDBUser   = "SVETLINE_DB_USER"
	EnvDBName   = "SVETLINE_DB_NAME"
	EnvRedisURL = "SVETLINE_REDIS_URL"

	EnvJWTSecret  = "SVETLINE_JWT_SECRET"
	EnvJWTIssuer  = "SVETLINE_JWT_ISSUER"
	EnvJWTExpMins = "SVETLINE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
