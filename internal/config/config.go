package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type MinioConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"backoffice"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxFileBytes int64 `envconfig:"UPLOAD_MAX_FILE_BYTES" default:"10485760"`
	MaxImages    int   `envconfig:"UPLOAD_MAX_IMAGES" default:"10"`
}

// SweepConfig controls the orphaned blob sweep. Grace keeps blobs from
// in-flight saves alive until their rows land.
type SweepConfig struct {
	Enabled  bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
	Grace    time.Duration `envconfig:"SWEEP_GRACE" default:"24h"`
}

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Minio  MinioConfig
	Upload UploadConfig
	Sweep  SweepConfig
}

// Load reads configuration from the environment, consulting a local .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
