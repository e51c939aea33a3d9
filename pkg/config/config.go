package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Storage   StorageConfig
	GCP       GCPConfig
	GCS       GCSConfig
	S3        S3Config
	Intake    IntakeConfig
	Sendgrid  SendgridConfig
	Analytics AnalyticsConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CASTCALL_APP_ENV" required:"true"`
	Port         string `envconfig:"CASTCALL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CASTCALL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASTCALL_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"CASTCALL_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver      string `envconfig:"CASTCALL_DB_DRIVER" default:"postgres"`
	DSN         string `envconfig:"CASTCALL_DB_DSN"`
	AutoMigrate bool   `envconfig:"CASTCALL_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"CASTCALL_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CASTCALL_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CASTCALL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASTCALL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"CASTCALL_REDIS_URL"`
	PoolSize     int           `envconfig:"CASTCALL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASTCALL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASTCALL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASTCALL_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"CASTCALL_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a shared redis instance was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type StorageConfig struct {
	Backend       string `envconfig:"CASTCALL_STORAGE_BACKEND" default:"local"`
	LocalRoot     string `envconfig:"CASTCALL_STORAGE_LOCAL_ROOT" default:"uploads"`
	PublicBaseURL string `envconfig:"CASTCALL_STORAGE_PUBLIC_BASE_URL"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CASTCALL_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CASTCALL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CASTCALL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"CASTCALL_GCS_BUCKET_NAME"`
	KeyPrefix  string `envconfig:"CASTCALL_GCS_KEY_PREFIX" default:"casting"`
}

type S3Config struct {
	BucketName string `envconfig:"CASTCALL_S3_BUCKET_NAME"`
	KeyPrefix  string `envconfig:"CASTCALL_S3_KEY_PREFIX" default:"casting"`
}

type IntakeConfig struct {
	MaxImages     int    `envconfig:"CASTCALL_MAX_IMAGES" default:"6"`
	MaxImageBytes int64  `envconfig:"CASTCALL_MAX_IMAGE_BYTES" default:"5242880"`
	MaxAudioBytes int64  `envconfig:"CASTCALL_MAX_AUDIO_BYTES" default:"10485760"`
	MaxRequestMB  int    `envconfig:"CASTCALL_MAX_REQUEST_MB" default:"80"`
	AdminEmail    string `envconfig:"CASTCALL_ADMIN_EMAIL" required:"true"`
}

// MaxRequestBytes returns the request body ceiling in bytes.
func (i IntakeConfig) MaxRequestBytes() int64 {
	if i.MaxRequestMB <= 0 {
		return 0
	}
	return int64(i.MaxRequestMB) << 20
}

type SendgridConfig struct {
	APIKey      string `envconfig:"CASTCALL_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"CASTCALL_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"CASTCALL_SENDGRID_FROM_NAME" default:"Casting Team"`
}

type AnalyticsConfig struct {
	Backend     string        `envconfig:"CASTCALL_ANALYTICS_BACKEND" default:"db"`
	FilePath    string        `envconfig:"CASTCALL_ANALYTICS_FILE_PATH" default:"data/analytics.jsonl"`
	StatsWindow int           `envconfig:"CASTCALL_ANALYTICS_STATS_WINDOW" default:"100"`
	SessionTTL  time.Duration `envconfig:"CASTCALL_ANALYTICS_SESSION_TTL" default:"1h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CASTCALL_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type RateLimitConfig struct {
	Window     time.Duration `envconfig:"CASTCALL_SUBMIT_RATE_LIMIT_WINDOW" default:"10m"`
	IPLimit    int           `envconfig:"CASTCALL_SUBMIT_RATE_LIMIT_IP" default:"10"`
	EmailLimit int           `envconfig:"CASTCALL_SUBMIT_RATE_LIMIT_EMAIL" default:"3"`
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("%s must be %q or %q", EnvDBDriver, DBDriverPostgres, DBDriverSQLite)
	}
	if c.DB.DSN == "" && c.Analytics.Backend == AnalyticsBackendDB {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvAnalyticsBackend, AnalyticsBackendDB)
	}

	switch strings.ToLower(c.Storage.Backend) {
	case StorageBackendLocal:
	case StorageBackendGCS:
		if c.GCS.BucketName == "" {
			return fmt.Errorf("%s is required for the gcs storage backend", EnvGCSBucket)
		}
	case StorageBackendS3:
		if c.S3.BucketName == "" {
			return fmt.Errorf("%s is required for the s3 storage backend", EnvS3Bucket)
		}
	default:
		return fmt.Errorf("unknown %s %q", EnvStorageBackend, c.Storage.Backend)
	}

	switch strings.ToLower(c.Analytics.Backend) {
	case AnalyticsBackendDB, AnalyticsBackendFile:
	default:
		return fmt.Errorf("unknown %s %q", EnvAnalyticsBackend, c.Analytics.Backend)
	}
	if c.Analytics.StatsWindow < 1 {
		return fmt.Errorf("%s must be at least 1", EnvAnalyticsWindow)
	}
	if c.Analytics.SessionTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvAnalyticsSessionTTL)
	}

	if c.Intake.MaxImages < 0 || c.Intake.MaxImageBytes <= 0 || c.Intake.MaxAudioBytes <= 0 {
		return fmt.Errorf("intake limits must be positive")
	}
	return nil
}
