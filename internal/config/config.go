package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	LogLevel      string   `mapstructure:"LOG_LEVEL"`
	MongoURI      string   `mapstructure:"MONGO_URI"`
	MongoDatabase string   `mapstructure:"MONGO_DATABASE"`
	JWTSecret     string   `mapstructure:"JWT_SECRET"`
	JWTExpires    string   `mapstructure:"JWT_EXPIRES"`
	CookieExpire  int      `mapstructure:"COOKIE_EXPIRE"`
	CookieSecure  bool     `mapstructure:"COOKIE_SECURE"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`

	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	MailFromName   string `mapstructure:"MAIL_FROM_NAME"`
	MailFrom       string `mapstructure:"MAIL_FROM"`
	MailTo         string `mapstructure:"MAIL_TO"`

	AWSRegion      string `mapstructure:"AWS_REGION"`
	AWSBucketName  string `mapstructure:"AWS_BUCKET_NAME"`
	ImageFolder    string `mapstructure:"IMAGE_FOLDER"`
	ImageBaseURL   string `mapstructure:"IMAGE_BASE_URL"`
	UploadTempDir  string `mapstructure:"UPLOAD_TEMP_DIR"`
	UploadMaxBytes int64  `mapstructure:"UPLOAD_MAX_BYTES"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "MONGO_URI", "MONGO_DATABASE",
	"JWT_SECRET", "JWT_EXPIRES", "COOKIE_EXPIRE", "COOKIE_SECURE", "CORS_ORIGINS",
	"SENDGRID_API_KEY", "MAIL_FROM_NAME", "MAIL_FROM", "MAIL_TO",
	"AWS_REGION", "AWS_BUCKET_NAME", "IMAGE_FOLDER", "IMAGE_BASE_URL",
	"UPLOAD_TEMP_DIR", "UPLOAD_MAX_BYTES",
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_DATABASE", "medihub")
	v.SetDefault("JWT_EXPIRES", "168h")
	v.SetDefault("COOKIE_EXPIRE", 7)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")
	v.SetDefault("MAIL_FROM_NAME", "MediHub")
	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("IMAGE_FOLDER", "medi-hub/images")
	v.SetDefault("UPLOAD_TEMP_DIR", "public/temp")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks value ranges and formats that Load cannot express.
func (c *Config) Validate() error {
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	if c.CookieExpire < 1 {
		return fmt.Errorf("COOKIE_EXPIRE must be a positive number of days, got %d", c.CookieExpire)
	}
	if c.UploadMaxBytes < 1 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// TokenTTL parses JWT_EXPIRES. Besides Go durations it accepts a day count
// such as "7d".
func (c *Config) TokenTTL() (time.Duration, error) {
	s := strings.TrimSpace(c.JWTExpires)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("JWT_EXPIRES: invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("JWT_EXPIRES: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("JWT_EXPIRES must be positive, got %s", s)
	}
	return d, nil
}

// CookieMaxAge is the lifetime of session cookies.
func (c *Config) CookieMaxAge() time.Duration {
	return time.Duration(c.CookieExpire) * 24 * time.Hour
}
