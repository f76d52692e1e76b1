package config

// EnvPrefix is passed to envconfig; every field carries an explicit name so it only
// matters for fields without one.
const EnvPrefix = "AMBASSADOR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	EnvAppEnv           = "AMBASSADOR_APP_ENV"
	EnvPort             = "AMBASSADOR_APP_PORT"
	EnvLogLevel         = "AMBASSADOR_LOG_LEVEL"
	EnvDevShop          = "AMBASSADOR_DEV_SHOP"
	EnvCORSOrigins      = "AMBASSADOR_CORS_ORIGINS"
	EnvDBDSN            = "AMBASSADOR_DB_DSN"
	EnvDBDriver         = "AMBASSADOR_DB_DRIVER"
	EnvDBPath           = "AMBASSADOR_DB_PATH"
	EnvRedisURL         = "AMBASSADOR_REDIS_URL"
	EnvShopifyAPIKey    = "AMBASSADOR_SHOPIFY_API_KEY"
	EnvShopifyAPISecret = "AMBASSADOR_SHOPIFY_API_SECRET"
	EnvShopifyScopes    = "AMBASSADOR_SHOPIFY_SCOPES"
	EnvStrictValidation = "AMBASSADOR_STRICT_VALIDATION"
	EnvEnrichCustomers  = "AMBASSADOR_ENRICH_CUSTOMERS"
)
