package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Payment    PaymentConfig
	Auction    AuctionConfig
	Signup     SignupConfig
	Firebase   FirebaseConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	StreamKey string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PaymentConfig struct {
	BaseURL        string
	APIKey         string
	WebhookSecret  string
	WebhookBaseURL string // callback will be WebhookBaseURL + /api/v1/webhooks/payment
	PaymentExpiry  time.Duration
}

// AuctionConfig tunes the background closer and bid defaults.
type AuctionConfig struct {
	CloseInterval       time.Duration
	DefaultAntiSnipeMin int
}

type SignupConfig struct {
	MinAge int
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables with the EXA_ prefix,
// falling back to development defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("EXA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("database.dsn", "exa:exa@tcp(localhost:3306)/exa?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream_key", "exa-auction-events")

	v.SetDefault("jwt.access_secret", "change-me-in-production")
	v.SetDefault("jwt.refresh_secret", "change-me-refresh")
	v.SetDefault("jwt.access_expiry", 15*time.Minute)
	v.SetDefault("jwt.refresh_expiry", 168*time.Hour)
	v.SetDefault("jwt.issuer", "exa-platform")

	v.SetDefault("payment.base_url", "https://checkout.example.com")
	v.SetDefault("payment.payment_expiry", 30*time.Minute)

	v.SetDefault("auction.close_interval", 15*time.Second)
	v.SetDefault("auction.default_anti_snipe_min", 5)

	v.SetDefault("signup.min_age", 18)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			Env:          v.GetString("server.env"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			DSN:             v.GetString("database.dsn"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("redis.addr"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			StreamKey: v.GetString("redis.stream_key"),
		},
		JWT: JWTConfig{
			AccessSecret:  v.GetString("jwt.access_secret"),
			RefreshSecret: v.GetString("jwt.refresh_secret"),
			AccessExpiry:  v.GetDuration("jwt.access_expiry"),
			RefreshExpiry: v.GetDuration("jwt.refresh_expiry"),
			Issuer:        v.GetString("jwt.issuer"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     v.GetString("oauth.google_client_id"),
			GoogleClientSecret: v.GetString("oauth.google_client_secret"),
			GoogleRedirectURL:  v.GetString("oauth.google_redirect_url"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("cloudinary.cloud_name"),
			APIKey:    v.GetString("cloudinary.api_key"),
			APISecret: v.GetString("cloudinary.api_secret"),
		},
		Payment: PaymentConfig{
			BaseURL:        v.GetString("payment.base_url"),
			APIKey:         v.GetString("payment.api_key"),
			WebhookSecret:  v.GetString("payment.webhook_secret"),
			WebhookBaseURL: v.GetString("payment.webhook_base_url"),
			PaymentExpiry:  v.GetDuration("payment.payment_expiry"),
		},
		Auction: AuctionConfig{
			CloseInterval:       v.GetDuration("auction.close_interval"),
			DefaultAntiSnipeMin: v.GetInt("auction.default_anti_snipe_min"),
		},
		Signup: SignupConfig{
			MinAge: v.GetInt("signup.min_age"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: v.GetString("firebase.service_account_path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
	}
}
