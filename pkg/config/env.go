package config

const (
	EnvConfigFile  = "CONFIG_FILE"
	EnvEnvironment = "ENVIRONMENT"

	EnvStoreDriver = "STORE_DRIVER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresURL         = "POSTGRES_URL"
	EnvPostgresConnTimeout = "POSTGRES_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout     = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL     = "IDEMPOTENCY_TTL"
	EnvIdempotencyBackend = "IDEMPOTENCY_BACKEND"
	EnvMaxRequestSize     = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvNotifierBackend        = "NOTIFIER_BACKEND"
	EnvNotifierPort           = "NOTIFIER_PORT"
	EnvNotifierConcurrency    = "NOTIFIER_CONCURRENCY"
	EnvNotificationTopic      = "NOTIFICATION_TOPIC"
	EnvNotificationDLQTopic   = "NOTIFICATION_DLQ_TOPIC"
	EnvNotificationGroupID    = "NOTIFICATION_GROUP_ID"
	EnvNotificationQueue      = "NOTIFICATION_QUEUE"
	EnvNotificationTimeout    = "NOTIFICATION_TIMEOUT"
	EnvNotificationMaxRetries = "NOTIFICATION_MAX_RETRIES"
	EnvNotificationRetryBase  = "NOTIFICATION_RETRY_BASE"
	EnvNotificationRetryMax   = "NOTIFICATION_RETRY_MAX"
	EnvNotificationSendDelay  = "NOTIFICATION_SEND_DELAY"
	EnvNotificationDedupeTTL  = "NOTIFICATION_DEDUPE_TTL"
	EnvDispatchTimeout        = "DISPATCH_TIMEOUT"
)
