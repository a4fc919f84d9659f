package config

const EnvPrefix = "SIRENE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:sirene.db?_foreign_keys=1"
)

const (
	EnvAppEnv    = "SIRENE_APP_ENV"
	EnvPort      = "SIRENE_APP_PORT"
	EnvLogLevel  = "SIRENE_LOG_LEVEL"
	EnvDBDSN     = "SIRENE_DB_DSN"
	EnvDBDriver  = "SIRENE_DB_DRIVER"
	EnvDBHost    = "SIRENE_DB_HOST"
	EnvDBUser    = "SIRENE_DB_USER"
	EnvDBName    = "SIRENE_DB_NAME"
	EnvRedisURL  = "SIRENE_REDIS_URL"
	EnvJWTSecret = "SIRENE_JWT_SECRET"
	EnvJWTIssuer = "SIRENE_JWT_ISSUER"
	EnvJWTExpMin = "SIRENE_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite = "SIRENE_USE_SQLITE"
	EnvCORS      = "SIRENE_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
