package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"citytour/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// pgxIface is the subset of *pgxpool.Pool the store needs; pgxmock pools satisfy it too.
type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres stores cities in a single table ordered by a serial column,
// which preserves insertion order across restarts.
type Postgres struct {
	db   pgxIface
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{db: pool, pool: pool}, nil
}

// Migrate applies the embedded goose migrations.
func (p *Postgres) Migrate(ctx context.Context) error {
	if p.pool == nil {
		return errors.New("migrate: no connection pool")
	}
	db := stdlib.OpenDBFromPool(p.pool)
	defer db.Close()
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (p *Postgres) AddCity(ctx context.Context, c model.City) error {
	tag, err := p.db.Exec(ctx, `INSERT INTO cities (name, lat, lon) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`, c.Name, c.Lat, c.Lon)
	if err != nil {
		return fmt.Errorf("insert city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}

func (p *Postgres) RemoveCity(ctx context.Context, name string) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM cities WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListCities(ctx context.Context) ([]model.City, error) {
	rows, err := p.db.Query(ctx, `SELECT name, lat, lon FROM cities ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()
	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.Name, &c.Lat, &c.Lon); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.Ping(ctx) }

func (p *Postgres) Kind() string { return "postgres" }

func (p *Postgres) Close() { p.db.Close() }
