package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/JonMunkholm/escolar/internal/config"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Store owns the single connection used for the whole process lifetime.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// NewStore wraps an already opened *sql.DB.
func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Open connects to the database described by cfg and verifies the
// connection with a ping bounded by cfg.ConnectTimeout.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, dialect, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	// One connection for the whole session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to %s database %q: %w", dialect, cfg.Name, err)
	}

	slog.Debug("database connection established", "driver", dialect.String(), "db", cfg.Name)

	return NewStore(db, dialect), nil
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = cfg.Addr()
		mc.DBName = cfg.Name
		mc.Timeout = cfg.ConnectTimeout
		mc.ParseTime = true
		// Report matched rows so an update that rewrites identical values
		// is not mistaken for a missing plan.
		mc.ClientFoundRows = true
		mc.Params = map[string]string{"autocommit": "0"}

		connector, err := mysql.NewConnector(mc)
		if err != nil {
			return nil, DialectMySQL, fmt.Errorf("mysql config: %w", err)
		}
		return sql.OpenDB(connector), DialectMySQL, nil

	case config.DriverPostgres:
		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   cfg.Addr(),
			Path:   "/" + cfg.Name,
		}
		q := u.Query()
		q.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
		u.RawQuery = q.Encode()

		pc, err := pgx.ParseConfig(u.String())
		if err != nil {
			return nil, DialectPostgres, fmt.Errorf("postgres config: %w", err)
		}
		return stdlib.OpenDB(*pc), DialectPostgres, nil

	case config.DriverSQLite:
		path := cfg.Name
		if filepath.Ext(path) == "" && path != ":memory:" {
			path += ".db"
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, DialectSQLite, fmt.Errorf("sqlite open %s: %w", path, err)
		}
		return db, DialectSQLite, nil

	default:
		return nil, DialectMySQL, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Dialect reports the SQL dialect of the connection.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Queries returns Queries that run outside any explicit transaction.
func (s *Store) Queries() *Queries {
	return New(s.db, s.dialect)
}

// InTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back on any error or panic.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.Warn("rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(s.Queries().WithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close releases the connection. Safe to call more than once.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
