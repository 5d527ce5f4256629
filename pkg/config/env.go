package config

const (
	EnvPrefix = "BPM"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "BPM_APP_ENV"
	EnvPort   = "BPM_APP_PORT"

	EnvDBDSN  = "BPM_DB_DSN"
	EnvDBHost = "BPM_DB_HOST"
	EnvDBUser = "BPM_DB_USER"
	EnvDBName = "BPM_DB_NAME"

	EnvRedisURL = "BPM_REDIS_URL"

	EnvJWTSecret              = "BPM_JWT_SECRET"
	EnvJWTIssuer              = "BPM_JWT_ISSUER"
	EnvJWTExpMins             = "BPM_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BPM_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "BPM_GCP_PROJECT_ID"

	EnvPubSubOrdersTopic    = "BPM_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub      = "BPM_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvPubSubCampaignsTopic = "BPM_PUBSUB_CAMPAIGNS_TOPIC"
	EnvPubSubCampaignsSub   = "BPM_PUBSUB_CAMPAIGNS_SUBSCRIPTION"
	EnvPubSubAnalyticsTopic = "BPM_PUBSUB_ANALYTICS_TOPIC"
	EnvPubSubAnalyticsSub   = "BPM_PUBSUB_ANALYTICS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
