package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                 INTEGER PRIMARY KEY,
	name               TEXT NOT NULL,
	location           TEXT,
	farm_size          REAL,
	preferred_language TEXT
);

CREATE TABLE IF NOT EXISTS user_farms (
	id                   INTEGER PRIMARY KEY,
	user_id              INTEGER NOT NULL,
	name                 TEXT NOT NULL,
	soil_type            TEXT,
	ph                   REAL,
	organic_carbon       REAL,
	irrigation_available INTEGER NOT NULL DEFAULT 0,
	irrigation_type      TEXT,
	area                 REAL,
	latitude             REAL,
	longitude            REAL,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS crops (
	id                INTEGER PRIMARY KEY,
	name              TEXT NOT NULL,
	local_name        TEXT,
	season            TEXT,
	soil_type         TEXT,
	ph_min            REAL,
	ph_max            REAL,
	temp_min          REAL,
	temp_max          REAL,
	rainfall_min      REAL,
	rainfall_max      REAL,
	yield_per_hectare REAL
);

CREATE TABLE IF NOT EXISTS soil_properties (
	id              INTEGER PRIMARY KEY,
	name            TEXT NOT NULL,
	local_name      TEXT,
	texture         TEXT,
	fertility       TEXT,
	water_retention TEXT,
	suitable_crops  TEXT
);

CREATE TABLE IF NOT EXISTS soil_measurements (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	farm_id     INTEGER NOT NULL,
	measured_at TEXT NOT NULL,
	bands_json  TEXT NOT NULL,
	UNIQUE (farm_id, measured_at),
	FOREIGN KEY (farm_id) REFERENCES user_farms(id)
);

CREATE TABLE IF NOT EXISTS agricultural_knowledge (
	id          TEXT PRIMARY KEY,
	category_id TEXT,
	title       TEXT NOT NULL,
	content     TEXT NOT NULL,
	summary     TEXT,
	tags        TEXT,
	keywords    TEXT,
	region      TEXT,
	crop_type   TEXT,
	difficulty  TEXT,
	is_active   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS agricultural_faqs (
	id          TEXT PRIMARY KEY,
	category_id TEXT,
	question    TEXT NOT NULL,
	answer      TEXT NOT NULL,
	tags        TEXT,
	keywords    TEXT,
	region      TEXT,
	crop_type   TEXT,
	is_active   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS agricultural_practices (
	id          TEXT PRIMARY KEY,
	category_id TEXT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	summary     TEXT,
	steps       TEXT,
	benefits    TEXT,
	tags        TEXT,
	keywords    TEXT,
	region      TEXT,
	crop_type   TEXT,
	difficulty  TEXT,
	is_active   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS chat_history (
	id                TEXT PRIMARY KEY,
	session_id        TEXT NOT NULL,
	user_id           INTEGER,
	query             TEXT NOT NULL,
	query_language    TEXT NOT NULL,
	response          TEXT,
	response_language TEXT,
	success           INTEGER NOT NULL,
	error_kind        TEXT,
	confidence        REAL,
	context_used      TEXT,
	elapsed_ms        INTEGER,
	created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_context_log (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id         TEXT,
	user_query         TEXT NOT NULL,
	context_used       TEXT,
	response_generated INTEGER NOT NULL,
	category_matched   TEXT,
	confidence_score   REAL,
	created_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_farms_user ON user_farms(user_id);
CREATE INDEX IF NOT EXISTS idx_history_created ON chat_history(created_at);
`

// #endregion schema

// #region store-struct
// Store is the relational store behind profile lookups, knowledge scoring and chat history.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and creates the schema if needed.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if strings.Contains(dbPath, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for the exchange logger.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region helpers
func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func encodeList(list []string) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		return nil
	}
	return list
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// #endregion helpers
