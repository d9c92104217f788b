package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"volops/core/config"
	"volops/core/constants"
	"volops/core/logger"
)

// Database wraps the sqlx connection pool used by every repository
type Database struct {
	sqlx *sqlx.DB
}

func InitDB(cfg config.DatabaseConfig) (Database, error) {
	logger.Info("Database:Init", "host", cfg.Host, "port", cfg.Port, "database", cfg.DBName)

	sqlxDB, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		logger.Error("Database:Init:Connect", err)
		return Database{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := sqlxDB.DB
	sqlDB.SetMaxOpenConns(constants.DatabaseMaxOpenConns)
	sqlDB.SetMaxIdleConns(constants.DatabaseMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(constants.DatabaseConnMaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		logger.Error("Database:Init:Ping", err)
		return Database{}, fmt.Errorf("failed to ping database: %w", err)
	}

	db := Database{sqlx: sqlxDB}

	logger.Info("Database:Init:Success",
		"maxOpenConns", constants.DatabaseMaxOpenConns,
		"maxIdleConns", constants.DatabaseMaxIdleConns,
	)
	return db, nil
}

func (d Database) ExecContext(ctx context.Context, query string, args ...any) error {
	_, err := d.sqlx.ExecContext(ctx, query, args...)
	return err
}

func (d Database) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.GetContext(ctx, dest, query, args...)
}

func (d Database) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return d.sqlx.SelectContext(ctx, dest, query, args...)
}

func (d Database) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sqlx.QueryRowContext(ctx, query, args...)
}

func (d Database) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.sqlx.QueryContext(ctx, query, args...)
}

func (d Database) NamedQueryContext(ctx context.Context, query string, arg any) (*sqlx.Rows, error) {
	return d.sqlx.NamedQueryContext(ctx, query, arg)
}

func (d Database) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	return d.sqlx.NamedExecContext(ctx, query, arg)
}

func (d Database) SQLx() *sqlx.DB {
	return d.sqlx
}

// Transaction runs fn inside a database transaction, committing on nil error
// and rolling back otherwise. All read-check-write sequences that enforce the
// capacity invariant go through here.
func (d Database) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.sqlx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			logger.Error("Database:Transaction:Rollback", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
