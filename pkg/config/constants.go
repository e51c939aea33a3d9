package config

// EnvPrefix is handed to envconfig; every tag spells out its full variable name.
const EnvPrefix = "CASTCALL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageBackendLocal = "local"
	StorageBackendGCS   = "gcs"
	StorageBackendS3    = "s3"

	AnalyticsBackendDB   = "db"
	AnalyticsBackendFile = "file"
)

const (
	EnvAppEnv              = "CASTCALL_APP_ENV"
	EnvPort                = "CASTCALL_APP_PORT"
	EnvDBDriver            = "CASTCALL_DB_DRIVER"
	EnvDBDSN               = "CASTCALL_DB_DSN"
	EnvRedisURL            = "CASTCALL_REDIS_URL"
	EnvStorageBackend      = "CASTCALL_STORAGE_BACKEND"
	EnvGCSBucket           = "CASTCALL_GCS_BUCKET_NAME"
	EnvS3Bucket            = "CASTCALL_S3_BUCKET_NAME"
	EnvAdminEmail          = "CASTCALL_ADMIN_EMAIL"
	EnvMaxImages           = "CASTCALL_MAX_IMAGES"
	EnvAnalyticsBackend    = "CASTCALL_ANALYTICS_BACKEND"
	EnvAnalyticsWindow     = "CASTCALL_ANALYTICS_STATS_WINDOW"
	EnvAnalyticsSessionTTL = "CASTCALL_ANALYTICS_SESSION_TTL"
	EnvCORSAllowedOrigins  = "CASTCALL_CORS_ALLOWED_ORIGINS"
)
