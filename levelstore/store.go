package levelstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/match3/level"
)

// ErrNotFound is returned when no level has the requested id
var ErrNotFound = errors.New("level not found")

const schema = `
CREATE TABLE IF NOT EXISTS levels (
    id         TEXT PRIMARY KEY,
    width      INTEGER NOT NULL,
    height     INTEGER NOT NULL,
    seed       INTEGER NOT NULL DEFAULT 0,
    moves      INTEGER NOT NULL DEFAULT 0,
    data       BLOB    NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS levels_created_at ON levels(created_at);
`

// Summary is a level listing row
type Summary struct {
	ID        string
	Width     int
	Height    int
	Seed      int64
	Moves     int
	CreatedAt time.Time
}

// Store is a SQLite-backed level library
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (and creates if missing) the level library at dsn
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	// Ensure directory exists for ./data/levels.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With().Str("component", "levelstore").Logger(),
	}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces a level and returns its id
// Levels without an id are assigned a fresh uuid
func (s *Store) Save(ctx context.Context, d *level.Data) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	blob, err := level.Encode(d)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", d.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO levels (id, width, height, seed, moves, data, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Width, d.Height, d.Seed, d.Moves, blob, time.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", d.ID, err)
	}

	s.log.Debug().Str("id", d.ID).Int("bytes", len(blob)).Msg("level saved")
	return d.ID, nil
}

// Load fetches and decodes a level
func (s *Store) Load(ctx context.Context, id string) (*level.Data, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM levels WHERE id=?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}

	d, err := level.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	d.ID = id
	return d, nil
}

// List returns every stored level, oldest first
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, width, height, seed, moves, created_at
        FROM levels
        ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var r Summary
		var created int64
		if err := rows.Scan(&r.ID, &r.Width, &r.Height, &r.Seed, &r.Moves, &created); err != nil {
			return nil, fmt.Errorf("list levels: %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a level
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM levels WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
