package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Postgres Postgres
	Auth     Auth
	Clerk    Clerk
	Markets  Markets
	SMTP     SMTP
	Jobs     Jobs
	CORS     CORS
}

type Postgres struct {
	Host            string `env:"PG_HOST" envDefault:"localhost"`
	Port            int    `env:"PG_PORT" envDefault:"5432"`
	User            string `env:"PG_USER" envDefault:"postgres"`
	Password        string `env:"PG_PASSWORD"`
	DBName          string `env:"PG_DB_NAME" envDefault:"dca"`
	SSLMode         string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
}

type Auth struct {
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenExpiry    time.Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`
	AdminSecretKey string        `env:"ADMIN_SECRET_KEY"`
}

type Clerk struct {
	SecretKey     string `env:"CLERK_SECRET_KEY"`
	WebhookSecret string `env:"CLERK_WEBHOOK_SECRET"`
}

type Markets struct {
	Debug         bool          `env:"MARKETS_DEBUG" envDefault:"false"`
	Timeout       time.Duration `env:"MARKETS_TIMEOUT" envDefault:"10s"`
	PriceAPIURL   string        `env:"PRICE_API_URL" envDefault:"https://min-api.cryptocompare.com"`
	PriceAPIKey   string        `env:"CRYPTO_API_KEY"`
	ATHAPIURL     string        `env:"ATH_API_URL" envDefault:"https://api.coingecko.com/api/v3"`
	CacheDuration time.Duration `env:"PRICE_CACHE_DURATION" envDefault:"1m"`
}

type SMTP struct {
	Host string `env:"SMTP_HOST"`
	Port string `env:"SMTP_PORT"`
	User string `env:"SMTP_USER"`
	Pass string `env:"SMTP_PASS"`
	From string `env:"FROM_EMAIL"`
}

type Jobs struct {
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"15m"`
}

type CORS struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:3000"`
}

// MustLoad carga la configuración desde variables de entorno (y .env si existe).
// Falla inmediatamente si la configuración es inválida.
func MustLoad() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("error al parsear la configuración: %s", err)
	}

	return cfg
}
