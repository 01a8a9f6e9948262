// Package persistence stores generated continents: a SQLite catalog of
// records and a LevelDB cache of encoded payloads keyed by options.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no continent matches.
var ErrNotFound = errors.New("continent not found")

// Continent is one stored generation result. Payload is the codec container;
// it is compressed at rest.
type Continent struct {
	ID           string `db:"id"`
	Seed         int64  `db:"seed"`
	Size         int    `db:"size"`
	SeaLevel     int    `db:"sea_level"`
	MaxElevation int    `db:"max_elevation"`
	LandCells    int    `db:"land_cells"`
	OptionsJSON  string `db:"options_json"`
	Payload      []byte `db:"payload"`
	CreatedUnix  int64  `db:"created_at"` // unix nanoseconds
}

// Created returns the creation time.
func (c *Continent) Created() time.Time {
	return time.Unix(0, c.CreatedUnix)
}

// DB wraps a SQLite connection holding the continent catalog.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS continents (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		size INTEGER NOT NULL,
		sea_level INTEGER NOT NULL,
		max_elevation INTEGER NOT NULL,
		land_cells INTEGER NOT NULL,
		options_json TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_continents_seed ON continents(seed, size);
	CREATE INDEX IF NOT EXISTS idx_continents_created ON continents(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveContinent inserts or replaces c. An empty ID is filled with a new
// UUID and a zero creation time with now.
func (db *DB) SaveContinent(c *Continent) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedUnix == 0 {
		c.CreatedUnix = time.Now().UnixNano()
	}
	packed := snappy.Encode(nil, c.Payload)
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO continents
			(id, seed, size, sea_level, max_elevation, land_cells, options_json, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Seed, c.Size, c.SeaLevel, c.MaxElevation, c.LandCells, c.OptionsJSON, packed, c.CreatedUnix,
	)
	if err != nil {
		return fmt.Errorf("save continent %s: %w", c.ID, err)
	}
	slog.Debug("continent saved", "id", c.ID, "raw", len(c.Payload), "stored", len(packed))
	return nil
}

// LoadContinent returns the continent with the given id, payload included.
func (db *DB) LoadContinent(id string) (*Continent, error) {
	var c Continent
	err := db.conn.Get(&c, "SELECT * FROM continents WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load continent %s: %w", id, err)
	}
	c.Payload, err = snappy.Decode(nil, c.Payload)
	if err != nil {
		return nil, fmt.Errorf("decompress continent %s: %w", id, err)
	}
	return &c, nil
}

const summaryColumns = "id, seed, size, sea_level, max_elevation, land_cells, options_json, created_at"

// ListContinents returns the most recent records, newest first, without
// payloads.
func (db *DB) ListContinents(limit int) ([]Continent, error) {
	var list []Continent
	err := db.conn.Select(&list,
		"SELECT "+summaryColumns+" FROM continents ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	return list, err
}

// FindBySeed returns records generated from seed at the given size, newest
// first, without payloads.
func (db *DB) FindBySeed(seed int64, size int) ([]Continent, error) {
	var list []Continent
	err := db.conn.Select(&list,
		"SELECT "+summaryColumns+" FROM continents WHERE seed = ? AND size = ? ORDER BY created_at DESC",
		seed, size,
	)
	return list, err
}

// DeleteContinent removes a record.
func (db *DB) DeleteContinent(id string) error {
	res, err := db.conn.Exec("DELETE FROM continents WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
