package config

import (
	"strings"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	EnableTLS   bool   `mapstructure:"enable_tls"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	EnableTLS bool   `mapstructure:"enable_tls"`
}

type RabbitMQConfig struct {
	URL          string             `mapstructure:"url"`
	EnableTLS    bool               `mapstructure:"enable_tls"`
	ExchangeName RabbitMQExchanges  `mapstructure:"exchange_name"`
	RoutingKey   RabbitMQRoutingKey `mapstructure:"routing_key"`
}

type RabbitMQExchanges struct {
	Mail string `mapstructure:"mail"`
}

type RabbitMQRoutingKey struct {
	MailVerification string `mapstructure:"mail_verification"`
	MailNotification string `mapstructure:"mail_notification"`
}

type S3Config struct {
	Endpoint         string `mapstructure:"endpoint"`
	Region           string `mapstructure:"region"`
	Bucket           string `mapstructure:"bucket"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	UsePathStyle     bool   `mapstructure:"use_path_style"`
	PresignExpireSec int    `mapstructure:"presign_expire_sec"`
}

type AuthConfig struct {
	// SecretPepper is mixed into password hashes and session token digests.
	SecretPepper string `mapstructure:"secret_pepper"`
	// SessionTokenPrefix prefixes every issued session token, e.g. "as_sess_".
	SessionTokenPrefix string `mapstructure:"session_token_prefix"`
	SessionTTLHours    int    `mapstructure:"session_ttl_hours"`
	VerifyTTLMinutes   int    `mapstructure:"verify_ttl_minutes"`
	// Owner bootstrap account, seeded on first start when both are set.
	OwnerEmail    string `mapstructure:"owner_email"`
	OwnerPassword string `mapstructure:"owner_password"`
}

type UploadsConfig struct {
	// MaxDocumentBytes caps a single document upload. 0 falls back to 10 MiB.
	MaxDocumentBytes int64 `mapstructure:"max_document_bytes"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OtlpEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	S3        S3Config        `mapstructure:"s3"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

const DefaultMaxDocumentBytes = int64(10 << 20) // 10 MiB

// MaxDocumentBytes returns the configured upload cap, defaulting to 10 MiB.
func (c *Config) MaxDocumentBytes() int64 {
	if c.Uploads.MaxDocumentBytes > 0 {
		return c.Uploads.MaxDocumentBytes
	}
	return DefaultMaxDocumentBytes
}

// Load reads config.yaml from the working directory (or CONFIG_PATH) and
// overlays PORTAL_* environment variables, e.g. PORTAL_DATABASE_DSN.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if p := v.GetString("config_path"); p != "" {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "arabshield-portal")
	v.SetDefault("app.env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")

	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("rabbitmq.exchange_name.mail", "portal.mail")
	v.SetDefault("rabbitmq.routing_key.mail_verification", "mail.verification")
	v.SetDefault("rabbitmq.routing_key.mail_notification", "mail.notification")

	v.SetDefault("s3.presign_expire_sec", 900)

	v.SetDefault("auth.session_token_prefix", "as_sess_")
	v.SetDefault("auth.session_ttl_hours", 24*14)
	v.SetDefault("auth.verify_ttl_minutes", 60*24)

	v.SetDefault("uploads.max_document_bytes", DefaultMaxDocumentBytes)

	v.SetDefault("telemetry.sample_ratio", 1.0)
}
