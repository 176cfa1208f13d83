package pricecache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"Rebalancer/internal/model"
)

// SQLiteCache persists quotes to a SQLite database.
type SQLiteCache struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteCache opens (or creates) the SQLite database and runs migrations.
func NewSQLiteCache(dbPath string, log zerolog.Logger) (*SQLiteCache, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so a watch-mode process and one-shot runs can share the file.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{
		db:  db,
		log: log.With().Str("component", "pricecache").Logger(),
		now: time.Now,
	}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	c.log.Info().Str("path", dbPath).Msg("sqlite quote cache opened")
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quotes (
			ticker     TEXT PRIMARY KEY,
			price      REAL NOT NULL,
			source     TEXT,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_fetched ON quotes(fetched_at)`,
	}

	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (c *SQLiteCache) Get(ticker string, maxAge time.Duration) (model.Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		price     float64
		source    sql.NullString
		fetchedAt int64
	)
	err := c.db.QueryRow(`SELECT price, source, fetched_at FROM quotes WHERE ticker = ?`, ticker).
		Scan(&price, &source, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quote{}, false, nil
	}
	if err != nil {
		return model.Quote{}, false, fmt.Errorf("query quote %s: %w", ticker, err)
	}

	ts := time.UnixMilli(fetchedAt)
	if c.now().Sub(ts) > maxAge {
		return model.Quote{}, false, nil
	}
	return model.Quote{
		Ticker:    ticker,
		Price:     price,
		Source:    source.String,
		FetchedAt: ts,
		Cached:    true,
	}, true, nil
}

// Put stores a successful quote, replacing any older one for the ticker.
func (c *SQLiteCache) Put(q model.Quote) error {
	if !q.OK() {
		return fmt.Errorf("refusing to cache failed quote for %s", q.Ticker)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	fetchedAt := q.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = c.now()
	}
	_, err := c.db.Exec(`INSERT INTO quotes (ticker, price, source, fetched_at)
		VALUES (?,?,?,?)
		ON CONFLICT(ticker) DO UPDATE SET
			price = excluded.price,
			source = excluded.source,
			fetched_at = excluded.fetched_at`,
		q.Ticker, q.Price, q.Source, fetchedAt.UnixMilli(),
	)
	return err
}

func (c *SQLiteCache) Close() error {
	c.log.Info().Msg("closing sqlite quote cache")
	return c.db.Close()
}
