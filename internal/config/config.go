package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig points at an optional object store holding the trained
// classifier artifact. An empty endpoint means no object store is used.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// ModelConfig locates the classifier artifact. The object store is tried
// first when configured, then the local path.
type ModelConfig struct {
	Path      string
	ObjectKey string
}

type SecurityConfig struct {
	SessionTTL      time.Duration
	SessionTokenLen int
	SessionCookie   string
	CleanupInterval time.Duration
}

type ReadingsConfig struct {
	HistoryHours   int
	AbnormalHours  int
	TempThreshold  float64
	LatestCacheTTL time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Model            ModelConfig
	Security         SecurityConfig
	Readings         ReadingsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ATHLETE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.bucket", "athlete-models")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("model.path", "health_model.json")
	v.SetDefault("model.objectkey", "health_model.json")

	v.SetDefault("security.sessionttl", "720h") // 30 days
	v.SetDefault("security.sessiontokenlen", 32)
	v.SetDefault("security.sessioncookie", "athlete_session")
	v.SetDefault("security.cleanupinterval", "1h")

	v.SetDefault("readings.historyhours", 24)
	v.SetDefault("readings.abnormalhours", 168)
	v.SetDefault("readings.tempthreshold", 37.5)
	v.SetDefault("readings.latestcachettl", "1h")
}
