package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Auth.
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	TokenTTLHours     int    `mapstructure:"TOKEN_TTL_HOURS"`
	MinPasswordLength int    `mapstructure:"MIN_PASSWORD_LENGTH"`
	AdminName         string `mapstructure:"ADMIN_NAME"`
	AdminEmail        string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword     string `mapstructure:"ADMIN_PASSWORD"`

	// Parking lot layout and billing.
	SlotSections    string  `mapstructure:"SLOT_SECTIONS"`
	SlotsPerSection int     `mapstructure:"SLOTS_PER_SECTION"`
	PricePerHour    float64 `mapstructure:"PRICE_PER_HOUR"`
	PaymentCurrency string  `mapstructure:"PAYMENT_CURRENCY"`
	StripeKey       string  `mapstructure:"STRIPE_KEY"`

	// Redis configuration. An empty address disables the QR image cache and reminders.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB     int    `mapstructure:"REDIS_QUEUE_DB"`
	QRCacheTTLMinute int    `mapstructure:"QR_CACHE_TTL_MINUTES"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "parkwise")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL_HOURS", 7*24)
	viper.SetDefault("MIN_PASSWORD_LENGTH", 6)
	viper.SetDefault("ADMIN_NAME", "Admin User")
	viper.SetDefault("ADMIN_EMAIL", "admin@parking.com")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("SLOT_SECTIONS", "A,B,C")
	viper.SetDefault("SLOTS_PER_SECTION", 6)
	viper.SetDefault("PRICE_PER_HOUR", 50)
	viper.SetDefault("PAYMENT_CURRENCY", "inr")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("QR_CACHE_TTL_MINUTES", 60)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// TokenTTL returns how long issued bearer tokens stay valid.
func TokenTTL() time.Duration {
	if AppConfig.TokenTTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(AppConfig.TokenTTLHours) * time.Hour
}

// Sections splits SLOT_SECTIONS into its section letters.
func Sections() []string {
	var out []string
	for _, s := range strings.Split(AppConfig.SlotSections, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

// RedisEnabled reports whether a Redis address was configured.
func RedisEnabled() bool {
	return AppConfig.RedisAddr != ""
}
