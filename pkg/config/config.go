package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = "DEALBOARD"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEALBOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"DEALBOARD_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"DEALBOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEALBOARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DEALBOARD_DB_DSN"`
	Driver string `envconfig:"DEALBOARD_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"DEALBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEALBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEALBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEALBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEALBOARD_REDIS_URL"`
	Address      string        `envconfig:"DEALBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"DEALBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEALBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEALBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEALBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEALBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEALBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEALBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DEALBOARD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DEALBOARD_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DEALBOARD_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DEALBOARD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DEALBOARD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DEALBOARD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DEALBOARD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DEALBOARD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"DEALBOARD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"DEALBOARD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"DEALBOARD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// UploadsConfig pins the public filesystem root every stored path is relative
// to. The root is injected at construction time, never read from request state.
type UploadsConfig struct {
	PublicDir   string `envconfig:"DEALBOARD_UPLOADS_PUBLIC_DIR" default:"public"`
	MaxUploadMB int    `envconfig:"DEALBOARD_UPLOADS_MAX_UPLOAD_MB" default:"25"`
	JPEGQuality int    `envconfig:"DEALBOARD_UPLOADS_JPEG_QUALITY" default:"90"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DEALBOARD_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DEALBOARD_AUTO_MIGRATE" default:"false"`
}
