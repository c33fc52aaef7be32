package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// The schema sticks to column types MySQL and SQLite both understand so the
// same statements back the in-memory test databases.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            VARCHAR(36)  NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL,
		created_at    DATETIME     NOT NULL,
		updated_at    DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS provider_profiles (
		id                 VARCHAR(36)  NOT NULL PRIMARY KEY,
		user_id            VARCHAR(36)  NOT NULL UNIQUE,
		business_name      VARCHAR(255) NOT NULL DEFAULT '',
		contact_name       VARCHAR(255) NOT NULL DEFAULT '',
		phone              VARCHAR(64)  NOT NULL DEFAULT '',
		address            VARCHAR(255) NOT NULL DEFAULT '',
		city               VARCHAR(128) NOT NULL DEFAULT '',
		state              VARCHAR(128) NOT NULL DEFAULT '',
		zip_code           VARCHAR(32)  NOT NULL DEFAULT '',
		business_type      VARCHAR(16)  NOT NULL DEFAULT '',
		tax_id             VARCHAR(64)  NOT NULL DEFAULT '',
		bank_account_last4 VARCHAR(4)   NOT NULL DEFAULT '',
		payout_method      VARCHAR(64)  NOT NULL DEFAULT '',
		status             VARCHAR(16)  NOT NULL,
		verification_notes TEXT,
		created_at         DATETIME     NOT NULL,
		updated_at         DATETIME     NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS spaces (
		id                  VARCHAR(36)  NOT NULL PRIMARY KEY,
		provider_id         VARCHAR(36)  NOT NULL,
		title               VARCHAR(255) NOT NULL,
		description         TEXT         NOT NULL,
		address             VARCHAR(255) NOT NULL DEFAULT '',
		city                VARCHAR(128) NOT NULL DEFAULT '',
		state               VARCHAR(128) NOT NULL DEFAULT '',
		zip_code            VARCHAR(32)  NOT NULL DEFAULT '',
		coordinates         TEXT,
		hourly_rate         DOUBLE       NOT NULL,
		daily_rate          DOUBLE,
		currency            VARCHAR(8)   NOT NULL,
		capacity            INT,
		amenities           TEXT         NOT NULL,
		images              TEXT         NOT NULL,
		availability_type   VARCHAR(32)  NOT NULL,
		custom_availability TEXT         NOT NULL,
		is_active           BOOLEAN      NOT NULL DEFAULT FALSE,
		status              VARCHAR(16)  NOT NULL,
		verification_notes  TEXT,
		approved_at         DATETIME,
		approved_by         VARCHAR(36),
		rating_average      DOUBLE       NOT NULL DEFAULT 0,
		rating_count        INT          NOT NULL DEFAULT 0,
		created_at          DATETIME     NOT NULL,
		updated_at          DATETIME     NOT NULL
	)`,
}

var indexes = []string{
	`CREATE INDEX idx_profiles_status ON provider_profiles (status, created_at)`,
	`CREATE INDEX idx_spaces_provider ON spaces (provider_id, created_at)`,
	`CREATE INDEX idx_spaces_public ON spaces (status, is_active, created_at)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil && !indexExists(err) {
			return fmt.Errorf("migrate index: %w", err)
		}
	}
	return nil
}

// MySQL has no CREATE INDEX IF NOT EXISTS; re-running reports 1061.
func indexExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key name") || strings.Contains(msg, "already exists")
}
