package config

// EnvPrefix is the envconfig prefix applied to every variable.
const EnvPrefix = "painthub"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv   = "PAINTHUB_APP_ENV"
	EnvPort     = "PAINTHUB_APP_PORT"
	EnvDBDSN    = "PAINTHUB_DB_DSN"
	EnvDBHost   = "PAINTHUB_DB_HOST"
	EnvDBUser   = "PAINTHUB_DB_USER"
	EnvDBName   = "PAINTHUB_DB_NAME"
	EnvRedisURL = "PAINTHUB_REDIS_URL"

	EnvGCPProjectID      = "PAINTHUB_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "PAINTHUB_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "PAINTHUB_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
