package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	sqlc "tradebook/internal/repository/sqlc/generated"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrTradeNotFound  = errors.New("trade not found in ledger")
	ErrDuplicateTrade = errors.New("trade id already exists in ledger")
)

// PostgreSQL error codes
const pgErrUniqueViolation = "23505"

//go:embed sqlc/schema/*.sql
var schemaFS embed.FS

type tradesRepository interface {
	InsertTrade(ctx context.Context, arg sqlc.InsertTradeParams) (sqlc.Trade, error)
	ListTrades(ctx context.Context) ([]sqlc.Trade, error)
	DeleteTrade(ctx context.Context, id string) (int64, error)
}

// Database struct that holds the database connection and queries.
type Database struct {
	trades tradesRepository
	conn   *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(ctx context.Context, dbURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return &Database{
		trades: sqlc.New(conn),
		conn:   conn}, nil
}

// Migrate applies the embedded schema files in lexical order. The files are
// idempotent.
func (db *Database) Migrate(ctx context.Context) error {
	entries, err := fs.ReadDir(schemaFS, "sqlc/schema")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		ddl, err := fs.ReadFile(schemaFS, "sqlc/schema/"+name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.conn.Exec(ctx, string(ddl)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}
