package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, denominations, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Admin    AdminConfig
	GiftCard GiftCardConfig
	SendGrid SendGridConfig
	Idosell  IdosellConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Warsaw"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"7200"` // 2*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// AdminConfig holds dashboard login credentials. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	User         string `envconfig:"ADMIN_USER" default:"admin"`
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`
}

type GiftCardConfig struct {
	// Product ID of the gift-card product in the shop catalog. Lines with any
	// other product ID are never treated as gift cards.
	ProductID string `envconfig:"GIFTCARD_PRODUCT_ID" required:"true"`
	// Face values sold, in configured order. Order matters: variant labels are
	// matched first-wins, so list longer labels ("1000") before their
	// substrings ("100") if both are ever sold.
	Denominations []int  `envconfig:"GIFTCARD_DENOMINATIONS" default:"100,200,300"`
	Currency      string `envconfig:"GIFTCARD_CURRENCY" default:"zł"`
}

type SendGridConfig struct {
	APIKey    string        `envconfig:"SENDGRID_API_KEY" default:""`
	FromEmail string        `envconfig:"SENDGRID_FROM_EMAIL" default:"kontakt@wowpr.pl"`
	FromName  string        `envconfig:"SENDGRID_FROM_NAME" default:"Wassyl"`
	Timeout   time.Duration `envconfig:"SENDGRID_TIMEOUT" default:"10s"`
}

// IdosellConfig may be left empty; the order-note step then degrades to a no-op.
type IdosellConfig struct {
	Domain  string        `envconfig:"IDOSELL_DOMAIN" default:""`
	APIKey  string        `envconfig:"IDOSELL_API_KEY" default:""`
	Timeout time.Duration `envconfig:"IDOSELL_TIMEOUT" default:"15s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:          "error",
			TimeZone:       "Europe/Warsaw",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 7200,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		GiftCard: GiftCardConfig{
			ProductID:     "77",
			Denominations: []int{100, 200, 300},
			Currency:      "zł",
		},
	}
}
