package config

const (
	EnvPrefix = "PIGEON"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "PIGEON_APP_ENV"
	EnvPort   = "PIGEON_APP_PORT"

	EnvDBDSN  = "PIGEON_DB_DSN"
	EnvDBHost = "PIGEON_DB_HOST"
	EnvDBUser = "PIGEON_DB_USER"
	EnvDBName = "PIGEON_DB_NAME"

	EnvRedisURL = "PIGEON_REDIS_URL"

	EnvCurrencyCode = "PIGEON_CURRENCY_CODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
