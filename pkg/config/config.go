package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Ingest       IngestConfig
	Backup       BackupConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"ORDERTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERTRACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ORDERTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ORDERTRACK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ORDERTRACK_DB_DSN"`
	Driver string `envconfig:"ORDERTRACK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ORDERTRACK_DB_HOST"`
	Port     int    `envconfig:"ORDERTRACK_DB_PORT" default:"5432"`
	User     string `envconfig:"ORDERTRACK_DB_USER"`
	Password string `envconfig:"ORDERTRACK_DB_PASSWORD"`
	Name     string `envconfig:"ORDERTRACK_DB_NAME"`
	SSLMode  string `envconfig:"ORDERTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ORDERTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ORDERTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ORDERTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ORDERTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		db.DSN = "file::memory:?cache=shared"
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("db dsn or host/user/name are required")
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     db.Name,
		RawQuery: "sslmode=" + db.SSLMode,
	}
	db.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"ORDERTRACK_REDIS_URL"`
	Address      string        `envconfig:"ORDERTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IngestConfig bounds the spreadsheet preview/commit flow.
type IngestConfig struct {
	StagingTTL  time.Duration `envconfig:"ORDERTRACK_INGEST_STAGING_TTL" default:"30m"`
	MaxUploadMB int           `envconfig:"ORDERTRACK_INGEST_MAX_UPLOAD_MB" default:"20"`
}

type BackupConfig struct {
	Dir      string        `envconfig:"ORDERTRACK_BACKUP_DIR" default:"backups"`
	Interval time.Duration `envconfig:"ORDERTRACK_BACKUP_INTERVAL" default:"24h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"ORDERTRACK_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	AuditTopic string `envconfig:"ORDERTRACK_PUBSUB_AUDIT_TOPIC" default:"ordertrack-audit-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ORDERTRACK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ORDERTRACK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ORDERTRACK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ORDERTRACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ORDERTRACK_AUTO_MIGRATE" default:"false"`
}
