// pkg/db/migrate.go
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate applies the schema idempotently at startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			username TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			balance NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			pending_income NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (pending_income >= 0),
			pending_investment NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (pending_investment >= 0),
			verification_status TEXT NOT NULL DEFAULT 'unverified',
			verification_document TEXT,
			verification_rejection_reason TEXT,
			verified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS properties (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			area BIGINT NOT NULL DEFAULT 0,
			floors BIGINT NOT NULL DEFAULT 0,
			rooms BIGINT NOT NULL DEFAULT 0,
			share_id UUID UNIQUE NOT NULL,
			current_price NUMERIC(20,4) NOT NULL,
			share_price NUMERIC(20,4) NOT NULL,
			number_of_shares BIGINT NOT NULL CHECK (number_of_shares > 0),
			available_shares BIGINT NOT NULL CHECK (available_shares >= 0),
			balance NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (available_shares <= number_of_shares)
		);`,
		`CREATE TABLE IF NOT EXISTS property_price_history (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id),
			price NUMERIC(20,4) NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS holdings (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			shares BIGINT NOT NULL CHECK (shares > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (property_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS pending_shares (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			property_id BIGINT NOT NULL REFERENCES properties(id),
			shares BIGINT NOT NULL CHECK (shares > 0),
			total_cost NUMERIC(20,4) NOT NULL CHECK (total_cost >= 0),
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS share_sales (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			property_id BIGINT NOT NULL REFERENCES properties(id),
			shares BIGINT NOT NULL CHECK (shares > 0),
			total_value NUMERIC(20,4) NOT NULL CHECK (total_value >= 0),
			status TEXT NOT NULL DEFAULT 'pending',
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount NUMERIC(20,4) NOT NULL CHECK (amount > 0),
			method TEXT NOT NULL,
			details JSONB NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'pending',
			notes TEXT,
			processed_by BIGINT,
			processed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			user_name TEXT NOT NULL,
			reference TEXT UNIQUE NOT NULL,
			amount NUMERIC(20,4) NOT NULL,
			type TEXT NOT NULL,
			source TEXT NOT NULL,
			description TEXT,
			date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS rent_distributions (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id),
			amount NUMERIC(20,4) NOT NULL CHECK (amount > 0),
			shareholders BIGINT NOT NULL,
			distributed_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			property_id BIGINT,
			user_id BIGINT,
			is_global BOOLEAN NOT NULL DEFAULT FALSE,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS pending_shares_status_idx ON pending_shares (status);`,
		`CREATE INDEX IF NOT EXISTS share_sales_status_idx ON share_sales (status);`,
		`CREATE INDEX IF NOT EXISTS withdrawals_status_idx ON withdrawals (status);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS holdings_user_idx ON holdings (user_id);`,
		`CREATE INDEX IF NOT EXISTS notifications_user_idx ON notifications (user_id);`,
		`CREATE INDEX IF NOT EXISTS notifications_global_idx ON notifications (is_global);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
