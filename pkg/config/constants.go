package config

// EnvPrefix is the envconfig prefix shared by every TANDOOR_* variable.
const EnvPrefix = "tandoor"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "TANDOOR_APP_ENV"
	EnvPort   = "TANDOOR_APP_PORT"

	EnvDBDSN  = "TANDOOR_DB_DSN"
	EnvDBHost = "TANDOOR_DB_HOST"
	EnvDBUser = "TANDOOR_DB_USER"
	EnvDBName = "TANDOOR_DB_NAME"

	EnvRedisURL = "TANDOOR_REDIS_URL"

	EnvJWTSecret  = "TANDOOR_JWT_SECRET"
	EnvJWTIssuer  = "TANDOOR_JWT_ISSUER"
	EnvJWTExpMins = "TANDOOR_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
