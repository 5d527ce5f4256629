package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Square        SquareConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BPM_APP_ENV" required:"true"`
	Port         string `envconfig:"BPM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BPM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BPM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BPM_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BPM_DB_DSN"`
	Driver string `envconfig:"BPM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BPM_DB_HOST"`
	LegacyPort     int    `envconfig:"BPM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BPM_DB_USER"`
	LegacyPassword string `envconfig:"BPM_DB_PASSWORD"`
	LegacyName     string `envconfig:"BPM_DB_NAME"`
	LegacySSLMode  string `envconfig:"BPM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BPM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BPM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BPM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BPM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BPM_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BPM_REDIS_ADDR"`
	Password     string        `envconfig:"BPM_REDIS_PASSWORD"`
	DB           int           `envconfig:"BPM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BPM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BPM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BPM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BPM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BPM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BPM_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BPM_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BPM_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BPM_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BPM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BPM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BPM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BPM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BPM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BPM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BPM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BPM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BPM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BPM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BPM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BPM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BPM_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"BPM_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BPM_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"BPM_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BPM_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic           string `envconfig:"BPM_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription    string `envconfig:"BPM_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
	CampaignsTopic        string `envconfig:"BPM_PUBSUB_CAMPAIGNS_TOPIC" required:"true"`
	CampaignsSubscription string `envconfig:"BPM_PUBSUB_CAMPAIGNS_SUBSCRIPTION" required:"true"`
	AnalyticsTopic        string `envconfig:"BPM_PUBSUB_ANALYTICS_TOPIC" required:"true"`
	AnalyticsSubscription string `envconfig:"BPM_PUBSUB_ANALYTICS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset                string `envconfig:"BPM_BIGQUERY_DATASET" default:"bpmconnect"`
	MarketplaceEventsTable string `envconfig:"BPM_BIGQUERY_MARKETPLACE_TABLE" default:"marketplace_events"`
	CampaignEventsTable    string `envconfig:"BPM_BIGQUERY_CAMPAIGN_TABLE" default:"campaign_events"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"BPM_SQUARE_ACCESS_TOKEN"`
	Env         string `envconfig:"BPM_SQUARE_ENV" default:"sandbox"`
	LocationID  string `envconfig:"BPM_SQUARE_LOCATION_ID"`
	ProPlanID   string `envconfig:"BPM_SQUARE_PRO_PLAN_ID"`
	BossPlanID  string `envconfig:"BPM_SQUARE_BOSS_PLAN_ID"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BPM_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BPM_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BPM_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
