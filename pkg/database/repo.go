// Package database owns the connection pool of the console, the migrations
// of its schema and the query logging hooks.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/qustavo/sqlhooks/v2"
	"github.com/rs/zerolog"
)

const driverName = "postgres-hooked"

//go:embed migrations/*.sql
var embedMigrations embed.FS

var registerOnce sync.Once

type Repo struct {
	db  *sql.DB
	log zerolog.Logger
}

type Transacter interface {
	Commit() error
	Rollback() error
}

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

// WithTx runs fn inside a transaction, rolling back when fn fails.
func (r *Repo) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error().Err(rbErr).Msg("rolling back transaction")
		}

		return err
	}

	return tx.Commit()
}

func (r *Repo) Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		collectors.NewDBStatsCollector(r.db, "mesh_console"),
	}
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func New(dbConnDSN string, maxIdleConn, maxOpenConn int, log zerolog.Logger) (*Repo, error) {
	registerOnce.Do(func() {
		sql.Register(driverName, sqlhooks.Wrap(&pq.Driver{}, &hooks{log: log}))
	})

	db, err := sql.Open(driverName, dbConnDSN)
	if err != nil {
		return nil, fmt.Errorf("open sql connection: %w", err)
	}

	db.SetMaxIdleConns(maxIdleConn)
	db.SetMaxOpenConns(maxOpenConn)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&gooseLogger{log: log})

	err = goose.SetDialect("postgres")
	if err != nil {
		return nil, fmt.Errorf("setting migration dialect: %w", err)
	}

	err = goose.Up(db, "migrations")
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	return &Repo{
		db:  db,
		log: log,
	}, nil
}

type queryStartKey struct{}

// hooks logs every statement with its duration at debug level.
type hooks struct {
	log zerolog.Logger
}

var (
	_ sqlhooks.Hooks     = &hooks{}
	_ sqlhooks.OnErrorer = &hooks{}
)

func (h *hooks) Before(ctx context.Context, _ string, _ ...interface{}) (context.Context, error) {
	return context.WithValue(ctx, queryStartKey{}, time.Now()), nil
}

func (h *hooks) After(ctx context.Context, query string, _ ...interface{}) (context.Context, error) {
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		h.log.Debug().Str("query", query).Dur("duration", time.Since(start)).Msg("query")
	}

	return ctx, nil
}

func (h *hooks) OnError(_ context.Context, err error, query string, _ ...interface{}) error {
	h.log.Warn().Err(err).Str("query", query).Msg("query failed")

	return err
}

type gooseLogger struct {
	log zerolog.Logger
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(format, v...)
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}
