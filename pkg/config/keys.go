package config

// EnvPrefix is passed to envconfig; individual keys carry the full name in
// their struct tags, so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced by tests and deploy tooling.
const (
	EnvAppEnv     = "STOREFRONT_APP_ENV"
	EnvAPIBaseURL = "STOREFRONT_API_BASE_URL"
	EnvAPITimeout = "STOREFRONT_API_TIMEOUT"
	EnvRedisURL   = "STOREFRONT_REDIS_URL"
	EnvJWTSecret  = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer  = "STOREFRONT_JWT_ISSUER"
	EnvGuestIDTTL = "STOREFRONT_GUEST_ID_TTL_MINUTES"
)
