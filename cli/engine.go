package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"anyFeatures/builders"
	"anyFeatures/config"
	"anyFeatures/schemas"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// engine owns the database handle for one command invocation.
type engine struct {
	kind string
	pool *pgxpool.Pool
	db   *sql.DB
	sch  schemas.Schema
}

func openEngine(ctx context.Context, c *config.Config) (*engine, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch c.Engine {
	case config.EnginePostgres:
		pcfg, err := pgxpool.ParseConfig(c.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dsn: %w", err)
		}
		if c.MaxOpenConns > 0 {
			pcfg.MaxConns = int32(c.MaxOpenConns)
		}
		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		sch, err := schemas.LoadSchema(ctx, pool, c.Tables())
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		return &engine{kind: c.Engine, pool: pool, sch: sch}, nil

	case config.EngineSQLite:
		db, err := sql.Open("sqlite", c.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if c.MaxOpenConns > 0 {
			db.SetMaxOpenConns(c.MaxOpenConns)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return &engine{kind: c.Engine, db: db}, nil
	}
	return nil, fmt.Errorf("unsupported engine %q", c.Engine)
}

// builder returns a fresh builder over the resource's table.
func (e *engine) builder(r config.Resource) builders.Builder {
	if e.pool != nil {
		return builders.NewSpecBuilder(e.pool, e.sch, r.Table, r.Columns...)
	}
	return builders.NewSquirrelBuilder(e.db, r.Table, sq.Question, r.Columns...)
}

func (e *engine) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
	if e.db != nil {
		e.db.Close()
	}
}
