package config

const (
	// EnvPrefix is unused by envconfig lookups (tags carry the full name)
	// but kept so callers can build variable names programmatically.
	EnvPrefix = "ORDERTRACK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
