package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/afisha-dev/afisha/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

// RunMigrations готовит схему основного сервиса.
func RunMigrations(db *sql.DB) error {
	// Read migration files and execute them
	// This is a simplified version - you might want to use a proper migration tool
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(250) NOT NULL,
			email VARCHAR(254) UNIQUE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) UNIQUE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS locations (
			id BIGSERIAL PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			annotation VARCHAR(2000) NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id),
			created_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			description VARCHAR(7000) NOT NULL,
			event_date TIMESTAMP NOT NULL,
			initiator_id BIGINT NOT NULL REFERENCES users(id),
			location_id BIGINT NOT NULL REFERENCES locations(id),
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			participant_limit INTEGER NOT NULL DEFAULT 0,
			published_on TIMESTAMP,
			request_moderation BOOLEAN NOT NULL DEFAULT TRUE,
			state VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			title VARCHAR(120) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS requests (
			id BIGSERIAL PRIMARY KEY,
			created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			event_id BIGINT NOT NULL REFERENCES events(id),
			requester_id BIGINT NOT NULL REFERENCES users(id),
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING'
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			text VARCHAR(2000) NOT NULL,
			author_id BIGINT NOT NULL REFERENCES users(id),
			event_id BIGINT NOT NULL REFERENCES events(id),
			created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			edited TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS compilations (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(50) NOT NULL,
			pinned BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE TABLE IF NOT EXISTS compilation_events (
			compilation_id BIGINT NOT NULL REFERENCES compilations(id) ON DELETE CASCADE,
			event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			PRIMARY KEY (compilation_id, event_id)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_events_initiator_id ON events(initiator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_category_id ON events(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_state_event_date ON events(state, event_date)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_event_id ON requests(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_requester_id ON requests(requester_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_event_id ON comments(event_id)`,

		// Одна живая заявка на пару (заявитель, событие): отмененные
		// не мешают подать заявку заново.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_requests_active
			ON requests(requester_id, event_id) WHERE status <> 'CANCELED'`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// RunStatsMigrations готовит схему сервиса статистики.
func RunStatsMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS hits (
			id BIGSERIAL PRIMARY KEY,
			app VARCHAR(255) NOT NULL,
			uri VARCHAR(2048) NOT NULL,
			ip VARCHAR(45) NOT NULL,
			timestamp TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_hits_timestamp ON hits(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_uri ON hits(uri)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Stats database migrations completed successfully")
	return nil
}
