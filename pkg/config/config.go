package config

import (
	"fmt"
	"mentorbook/pkg/client"
	"mentorbook/pkg/logger"
	"os"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	ServiceName string
	Environment string
	StoreDriver string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresURL         string
	PostgresConnTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port               string
	CORSAllowedOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout     time.Duration
	IdempotencyTTL     time.Duration
	IdempotencyBackend string
	MaxRequestSize     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	NotifierBackend        string
	NotifierPort           string
	NotifierConcurrency    int
	NotificationTopic      string
	NotificationDLQTopic   string
	NotificationGroupID    string
	NotificationQueue      string
	NotificationTimeout    time.Duration
	NotificationMaxRetries int
	NotificationRetryBase  time.Duration
	NotificationRetryMax   time.Duration
	NotificationSendDelay  time.Duration
	NotificationDedupeTTL  time.Duration
	DispatchTimeout        time.Duration

	LogLevel string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment, falling back to the
// optional YAML file named by CONFIG_FILE and then to the defaults.
func Load(serviceName string) *Config {
	src, srcErr := newSource(os.Getenv(EnvConfigFile))

	cfg := fromSource(src)
	cfg.ServiceName = serviceName
	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	cfg.Client = client.NewClient()

	if srcErr != nil {
		cfg.Log.Fatal("Failed to read configuration file", "path", os.Getenv(EnvConfigFile), "error", srcErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func fromSource(src *source) *Config {
	return &Config{
		Environment: src.getEnvStr(EnvEnvironment, DefaultEnvironment),
		StoreDriver: src.getEnvStr(EnvStoreDriver, DefaultStoreDriver),
		LogLevel:    src.getEnvStr(EnvLogLevel, DefaultLogLevel),

		MongoURI:          src.getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: src.getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  src.getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		PostgresURL:         src.getEnvStr(EnvPostgresURL, DefaultPostgresURL),
		PostgresConnTimeout: src.getEnvDuration(EnvPostgresConnTimeout, DefaultPostgresConnTimeout),

		RedisAddr:     src.getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: src.getEnvStr(EnvRedisPassword, ""),
		RedisDB:       src.getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port:               src.getEnvStr(EnvPort, DefaultPort),
		CORSAllowedOrigins: src.getEnvList(EnvCORSAllowedOrigins, DefaultCORSAllowedOrigins),

		RateLimitRequests: src.getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   src.getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:     src.getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL:     src.getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		IdempotencyBackend: src.getEnvStr(EnvIdempotencyBackend, DefaultIdempotencyBackend),
		MaxRequestSize:     src.getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     src.getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    src.getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     src.getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: src.getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		NotifierBackend:        src.getEnvStr(EnvNotifierBackend, DefaultNotifierBackend),
		NotifierPort:           src.getEnvStr(EnvNotifierPort, DefaultNotifierPort),
		NotifierConcurrency:    src.getEnvNum(EnvNotifierConcurrency, DefaultNotifierConcurrency),
		NotificationTopic:      src.getEnvStr(EnvNotificationTopic, DefaultNotificationTopic),
		NotificationDLQTopic:   src.getEnvStr(EnvNotificationDLQTopic, DefaultNotificationDLQTopic),
		NotificationGroupID:    src.getEnvStr(EnvNotificationGroupID, DefaultNotificationGroupID),
		NotificationQueue:      src.getEnvStr(EnvNotificationQueue, DefaultNotificationQueue),
		NotificationTimeout:    src.getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),
		NotificationMaxRetries: src.getEnvNum(EnvNotificationMaxRetries, DefaultNotificationMaxRetries),
		NotificationRetryBase:  src.getEnvDuration(EnvNotificationRetryBase, DefaultNotificationRetryBase),
		NotificationRetryMax:   src.getEnvDuration(EnvNotificationRetryMax, DefaultNotificationRetryMax),
		NotificationSendDelay:  src.getEnvDuration(EnvNotificationSendDelay, DefaultNotificationSendDelay),
		NotificationDedupeTTL:  src.getEnvDuration(EnvNotificationDedupeTTL, DefaultNotificationDedupeTTL),
		DispatchTimeout:        src.getEnvDuration(EnvDispatchTimeout, DefaultDispatchTimeout),
	}
}

// SetStore connects to the database selected by STORE_DRIVER.
func (cfg *Config) SetStore() {
	switch cfg.StoreDriver {
	case StoreMongo:
		cfg.SetMongo()
	default:
		cfg.SetPostgres()
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.PostgresURL, cfg.PostgresConnTimeout)
}

// SetRedis connects to Redis when REDIS_ADDR is set. It is a no-op otherwise.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ReadTimeout)
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == EnvironmentProduction
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if port, err := strconv.Atoi(cfg.NotifierPort); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("NotifierPort must be between 1 and 65535, got: %s", cfg.NotifierPort))
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURL(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StorePostgres:
		if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.PostgresURL) {
			errors = append(errors, fmt.Sprintf("PostgresURL must start with 'postgres://' or 'postgresql://', got: %s", redactURL(cfg.PostgresURL)))
		}
		if cfg.PostgresConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("PostgresConnTimeout must be positive, got: %s", cfg.PostgresConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of [%s, %s], got: %s", StorePostgres, StoreMongo, cfg.StoreDriver))
	}

	switch cfg.NotifierBackend {
	case NotifierKafka:
		if cfg.NotificationTopic == "" {
			errors = append(errors, "NotificationTopic cannot be empty")
		}
		if cfg.NotificationGroupID == "" {
			errors = append(errors, "NotificationGroupID cannot be empty")
		}
	case NotifierAsynq:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr is required when NotifierBackend is asynq")
		}
		if cfg.NotificationQueue == "" {
			errors = append(errors, "NotificationQueue cannot be empty")
		}
	default:
		errors = append(errors, fmt.Sprintf("NotifierBackend must be one of [%s, %s], got: %s", NotifierKafka, NotifierAsynq, cfg.NotifierBackend))
	}

	switch cfg.IdempotencyBackend {
	case IdempotencyMemory:
	case IdempotencyRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr is required when IdempotencyBackend is redis")
		}
	default:
		errors = append(errors, fmt.Sprintf("IdempotencyBackend must be one of [%s, %s], got: %s", IdempotencyMemory, IdempotencyRedis, cfg.IdempotencyBackend))
	}

	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"NotificationTimeout", cfg.NotificationTimeout},
		{"NotificationRetryBase", cfg.NotificationRetryBase},
		{"NotificationRetryMax", cfg.NotificationRetryMax},
		{"NotificationDedupeTTL", cfg.NotificationDedupeTTL},
		{"DispatchTimeout", cfg.DispatchTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.NotificationRetryMax < cfg.NotificationRetryBase {
		errors = append(errors, fmt.Sprintf("NotificationRetryMax (%s) must be >= NotificationRetryBase (%s)", cfg.NotificationRetryMax, cfg.NotificationRetryBase))
	}
	if cfg.NotificationSendDelay < 0 {
		errors = append(errors, fmt.Sprintf("NotificationSendDelay cannot be negative, got: %s", cfg.NotificationSendDelay))
	}
	if cfg.NotificationMaxRetries < 0 {
		errors = append(errors, fmt.Sprintf("NotificationMaxRetries cannot be negative, got: %d", cfg.NotificationMaxRetries))
	}
	if cfg.NotifierConcurrency <= 0 {
		errors = append(errors, fmt.Sprintf("NotifierConcurrency must be positive, got: %d", cfg.NotifierConcurrency))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"environment", cfg.Environment,
		"store_driver", cfg.StoreDriver,
		"mongo_uri", redactURL(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"postgres_url", redactURL(cfg.PostgresURL),
		"postgres_conn_timeout", cfg.PostgresConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"redis_db", cfg.RedisDB,
		"port", cfg.Port,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"idempotency_backend", cfg.IdempotencyBackend,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"notifier_backend", cfg.NotifierBackend,
		"notifier_port", cfg.NotifierPort,
		"notifier_concurrency", cfg.NotifierConcurrency,
		"notification_topic", cfg.NotificationTopic,
		"notification_dlq_topic", cfg.NotificationDLQTopic,
		"notification_group_id", cfg.NotificationGroupID,
		"notification_queue", cfg.NotificationQueue,
		"notification_timeout", cfg.NotificationTimeout,
		"notification_max_retries", cfg.NotificationMaxRetries,
		"notification_retry_base", cfg.NotificationRetryBase,
		"notification_retry_max", cfg.NotificationRetryMax,
		"notification_send_delay", cfg.NotificationSendDelay,
		"notification_dedupe_ttl", cfg.NotificationDedupeTTL,
		"dispatch_timeout", cfg.DispatchTimeout,
	)
}

var credentialRegex = regexp.MustCompile(`^([a-z+]+://)[^:/@]+:[^@]+@`)

func redactURL(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func (cfg *Config) GracefulShutdown() {
	if err := cfg.Client.GracefulShutdown(); err != nil {
		cfg.Log.Error("Failed to close connections", "error", err)
	}
}
