package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Audit     AuditConfig     `mapstructure:"audit"      validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// AuditConfig controls where audit events go and how they are buffered.
// An empty File writes events to stdout. Stdout mirrors file output to
// stdout as well.
type AuditConfig struct {
	File        string `mapstructure:"file"`
	Stdout      bool   `mapstructure:"stdout"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"   validate:"gt=0"`
	MaxBackups  int    `mapstructure:"max_backups"   validate:"gte=0"`
	MaxAgeDays  int    `mapstructure:"max_age_days"  validate:"gte=0"`
	QueueSize   int    `mapstructure:"queue_size"    validate:"gt=0"`
	WorkerCount int    `mapstructure:"worker_count"  validate:"gt=0"`
}

// RateLimitConfig configures the limiter in front of the auth endpoints.
// Rate limiting is disabled when RedisURL is empty.
type RateLimitConfig struct {
	RedisURL      string `mapstructure:"redis_url"      validate:"omitempty,url"`
	Requests      int    `mapstructure:"requests"       validate:"gt=0"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"gt=0"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}
