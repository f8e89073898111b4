package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/cryptodca/portfolio-api/internal/config"
)

const (
	connAttempts = 10
	connTimeout  = time.Second
)

// New abre la conexión a Postgres y deja el esquema listo. La conexión se
// devuelve al llamador en lugar de guardarse en una variable global, para
// que repositorios y tests reciban su dependencia de forma explícita.
func New(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error al abrir la conexión a postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second)

	// La base puede tardar en aceptar conexiones al arrancar junto al servicio
	attempts := connAttempts
	for {
		err = db.Ping()
		if err == nil {
			break
		}
		attempts--
		if attempts == 0 {
			return nil, fmt.Errorf("no se pudo conectar a postgres: %w", err)
		}
		slog.Info("esperando a postgres", slog.Int("intentos restantes", attempts))
		time.Sleep(connTimeout)
	}

	if err := initSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

func initSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS crypto_transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			crypto_name TEXT NOT NULL,
			ticker TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			purchase_price DOUBLE PRECISION NOT NULL,
			total DOUBLE PRECISION NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			type TEXT NOT NULL DEFAULT 'compra',
			note TEXT,
			image_url TEXT,
			added_manually BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crypto_transactions_user_ticker
			ON crypto_transactions(user_id, ticker)`,
		`CREATE TABLE IF NOT EXISTS bolsas (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			goal DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS assets_in_bolsa (
			id TEXT PRIMARY KEY,
			bolsa_id TEXT NOT NULL REFERENCES bolsas(id) ON DELETE CASCADE,
			crypto_name TEXT NOT NULL,
			ticker TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			purchase_price DOUBLE PRECISION NOT NULL,
			total DOUBLE PRECISION NOT NULL,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bolsa_tags (
			id TEXT PRIMARY KEY,
			bolsa_id TEXT NOT NULL REFERENCES bolsas(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE(bolsa_id, tag)
		)`,
		`CREATE TABLE IF NOT EXISTS investment_snapshots (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date TIMESTAMPTZ NOT NULL,
			total_value DOUBLE PRECISION NOT NULL,
			total_invested DOUBLE PRECISION NOT NULL,
			profit DOUBLE PRECISION NOT NULL,
			profit_percentage DOUBLE PRECISION NOT NULL,
			max_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			min_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investment_snapshots_user_date
			ON investment_snapshots(user_id, date)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error al inicializar el esquema: %w", err)
		}
	}

	slog.Info("esquema de base de datos inicializado")
	return nil
}
