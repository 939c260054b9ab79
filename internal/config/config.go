package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigFile = "configs/config.yaml"

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	// Admin is the single dashboard login. PasswordHash is a bcrypt hash.
	Admin struct {
		Email        string `mapstructure:"email"`
		PasswordHash string `mapstructure:"password_hash"`
	} `mapstructure:"admin"`

	Business struct {
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"business"`

	Schedule struct {
		Enabled      bool   `mapstructure:"enabled"`
		DailySync    string `mapstructure:"daily_sync"`
		PaymentCheck string `mapstructure:"payment_check"`
	} `mapstructure:"schedule"`

	Calendly struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"calendly"`

	Google struct {
		CalendarID string `mapstructure:"calendar_id"`
	} `mapstructure:"google"`

	Payments struct {
		// Provider is "stripe" or "razorpay".
		Provider string `mapstructure:"provider"`
		Stripe   struct {
			SecretKey string `mapstructure:"secret_key"`
		} `mapstructure:"stripe"`
		Razorpay struct {
			KeyID     string `mapstructure:"key_id"`
			KeySecret string `mapstructure:"key_secret"`
		} `mapstructure:"razorpay"`
	} `mapstructure:"payments"`

	// Storage is an S3-compatible bucket (AWS S3 or Cloudflare R2) for report archives.
	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Prefix    string `mapstructure:"prefix"`
	} `mapstructure:"storage"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// Load reads the YAML config file (optional), .env and environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	if path == "" {
		path = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set in config or environment")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "dashboard_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "dashboard-backend")
	v.SetDefault("business.timezone", "Asia/Ho_Chi_Minh")
	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.daily_sync", "0 9 * * 1-5")
	v.SetDefault("schedule.payment_check", "50 23 * * 1-5")
	v.SetDefault("calendly.base_url", "https://api.calendly.com")
	v.SetDefault("calendly.timeout_seconds", 20)
	v.SetDefault("google.calendar_id", "primary")
	v.SetDefault("payments.provider", "stripe")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.prefix", "reports/")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Admin.Email = email
	}
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.Admin.PasswordHash = hash
	}

	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		cfg.Payments.Stripe.SecretKey = key
	}
	if keyID := os.Getenv("RAZORPAY_KEY_ID"); keyID != "" {
		cfg.Payments.Razorpay.KeyID = keyID
	}
	if keySecret := os.Getenv("RAZORPAY_KEY_SECRET"); keySecret != "" {
		cfg.Payments.Razorpay.KeySecret = keySecret
	}

	if key := os.Getenv("STORAGE_ACCESS_KEY"); key != "" {
		cfg.Storage.AccessKey = key
	}
	if secret := os.Getenv("STORAGE_SECRET_KEY"); secret != "" {
		cfg.Storage.SecretKey = secret
	}
}

// DSN builds the pgx connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// StorageEnabled reports whether report archiving has a bucket and credentials.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != "" && c.Storage.AccessKey != "" && c.Storage.SecretKey != ""
}
