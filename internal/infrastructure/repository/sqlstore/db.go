package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type LoadMode string

const (
	// LoadModeInsert skips rows whose fixture_id is already stored.
	LoadModeInsert LoadMode = "insert"
	// LoadModeUpsert refreshes goals, status, referee and venue of stored rows.
	LoadModeUpsert LoadMode = "upsert"
)

func ParseLoadMode(raw string) (LoadMode, error) {
	switch LoadMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LoadModeInsert:
		return LoadModeInsert, nil
	case LoadModeUpsert:
		return LoadModeUpsert, nil
	default:
		return "", fmt.Errorf("unsupported load mode %q (expected insert or upsert)", raw)
	}
}

// Metrics receives repository failure signals. A nil Metrics is ignored.
type Metrics interface {
	QueryFailed(query string)
	SnapshotRejected(reason string)
}

type Options struct {
	Driver                      string
	DSN                         string
	DisablePreparedBinaryResult bool
	AutoMigrate                 bool
	LoadMode                    LoadMode
	Logger                      *logging.Logger
	Metrics                     Metrics
	Now                         func() time.Time
}

// Open connects to the fixtures database, applying migrations first when
// AutoMigrate is set. The returned repository owns the connection.
func Open(ctx context.Context, opts Options) (*FixtureRepository, error) {
	driver, err := NormalizeDriver(opts.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := PrepareDSN(driver, opts.DSN, opts.DisablePreparedBinaryResult)
	if err != nil {
		return nil, err
	}

	if opts.AutoMigrate {
		if err := MigrateUp(driver, dsn); err != nil {
			return nil, err
		}
	}

	db, err := otelsqlx.Open(driver, dsn,
		otelsql.WithDBSystem(driver),
		otelsql.WithDBName(dbName(driver, dsn)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// single writer; concurrent callers queue on the pool
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return NewFixtureRepository(db, RepositoryOptions{
		LoadMode: opts.LoadMode,
		Logger:   opts.Logger,
		Metrics:  opts.Metrics,
		Now:      opts.Now,
	}), nil
}
