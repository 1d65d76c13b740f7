package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// Storage keeps per-user report state in a local sqlite file. Writes go
// through a single connection, reads through a small read-only pool.
type Storage struct {
	w *bun.DB
	r *bun.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%s: sqlite path is required", op)
	}

	wsql, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", path))
	if err != nil {
		return nil, fmt.Errorf("%s: open write db: %w", op, err)
	}
	wsql.SetMaxOpenConns(1)
	wsql.SetConnMaxLifetime(15 * time.Minute)

	// The file does not exist before the first write, so the read pool
	// cannot be opened in ro mode until then.
	if err := wsql.Ping(); err != nil {
		wsql.Close()
		return nil, fmt.Errorf("%s: ping write db: %w", op, err)
	}

	rsql, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_query_only=1", path))
	if err != nil {
		wsql.Close()
		return nil, fmt.Errorf("%s: open read db: %w", op, err)
	}
	rsql.SetMaxOpenConns(8)
	rsql.SetConnMaxIdleTime(5 * time.Minute)
	rsql.SetConnMaxLifetime(15 * time.Minute)

	s := &Storage{
		w: bun.NewDB(wsql, sqlitedialect.New()),
		r: bun.NewDB(rsql, sqlitedialect.New()),
	}

	if err := s.migrate(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	werr := s.w.Close()
	rerr := s.r.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

func (s *Storage) withWriteTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return s.w.RunInTx(ctx, &sql.TxOptions{}, fn)
}
