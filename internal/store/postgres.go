package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dkhalov/caucus/internal/dbx"
	"github.com/dkhalov/caucus/internal/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Postgres implements Store over a single entity_fields table, one row per
// (key, field). Writes run inside a transaction so a save is all-or-nothing,
// and every save pushes the whole record's expires_at forward.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a Store bound to the given database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func (p *Postgres) GetFields(ctx context.Context, key string, fields []string) (map[string]string, error) {
	query := `
		SELECT field, value FROM entity_fields
		WHERE key = $1 AND field = ANY($2) AND expires_at > now();
	`
	rows, err := p.db.QueryContext(ctx, query, key, fields)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	defer rows.Close()

	result := make(map[string]string, len(fields))
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", key, err)
		}
		result[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return result, nil
}

func (p *Postgres) SetFields(ctx context.Context, key string, values map[string]string, ttl time.Duration) error {
	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		upsert := `
			INSERT INTO entity_fields (key, field, value, expires_at)
			VALUES ($1, $2, $3, now() + $4 * interval '1 second')
			ON CONFLICT (key, field)
			DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at;
		`
		for field, value := range values {
			if _, err := tx.ExecContext(ctx, upsert, key, field, value, ttl.Seconds()); err != nil {
				return err
			}
		}

		// Refresh the expiry of fields not touched by this save, so the
		// record ages out as a whole.
		refresh := `
			UPDATE entity_fields SET expires_at = now() + $2 * interval '1 second'
			WHERE key = $1;
		`
		_, err := tx.ExecContext(ctx, refresh, key, ttl.Seconds())
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM entity_fields WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
