package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"daybook/internal/logging"
	"daybook/internal/types"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable Store. All five collections are loaded into
// memory at open; Save rewrites them inside one transaction, giving the
// synchronous single-writer semantics the handlers rely on.
type SQLiteStore struct {
	MemoryStore
	db     *sql.DB
	dbPath string
}

var tables = []string{"events", "tasks", "habits", "goals", "categories"}

// NewSQLiteStore opens (creating if needed) the database at path and loads
// all collections.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewSQLiteStore")
	defer timer.Stop()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreDebug("failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &SQLiteStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("opened %s: %d events, %d tasks, %d habits, %d goals, %d categories",
		path, len(s.events), len(s.tasks), len(s.habits), len(s.goals), len(s.categories))
	return s, nil
}

// initialize creates the per-domain tables.
func (s *SQLiteStore) initialize() error {
	for _, table := range tables {
		schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`, table)
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// loadAll reads every collection into memory.
func (s *SQLiteStore) loadAll() error {
	if err := loadTable(s.db, "events", &s.events); err != nil {
		return err
	}
	if err := loadTable(s.db, "tasks", &s.tasks); err != nil {
		return err
	}
	if err := loadTable(s.db, "habits", &s.habits); err != nil {
		return err
	}
	if err := loadTable(s.db, "goals", &s.goals); err != nil {
		return err
	}
	return loadTable(s.db, "categories", &s.categories)
}

func loadTable[T any](db *sql.DB, table string, dst *[]*T) error {
	rows, err := db.Query(fmt.Sprintf("SELECT payload FROM %s ORDER BY updated_at, id", table))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		entity := new(T)
		if err := json.Unmarshal([]byte(payload), entity); err != nil {
			return fmt.Errorf("corrupt %s payload: %w", table, err)
		}
		out = append(out, entity)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	*dst = out
	return nil
}

// Save rewrites all collections in one transaction.
func (s *SQLiteStore) Save() error {
	timer := logging.StartTimer(logging.CategoryStore, "Save")
	defer timer.Stop()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if err := saveTable(tx, "events", s.events, func(e *types.Event) string { return e.ID }); err != nil {
		return err
	}
	if err := saveTable(tx, "tasks", s.tasks, func(t *types.Task) string { return t.ID }); err != nil {
		return err
	}
	if err := saveTable(tx, "habits", s.habits, func(h *types.Habit) string { return h.ID }); err != nil {
		return err
	}
	if err := saveTable(tx, "goals", s.goals, func(g *types.Goal) string { return g.ID }); err != nil {
		return err
	}
	if err := saveTable(tx, "categories", s.categories, func(c *types.Category) string { return c.ID }); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	s.SaveCount++
	return nil
}

func saveTable[T any](tx *sql.Tx, table string, entities []*T, id func(*T) string) error {
	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (id, payload) VALUES (?, ?)", table))
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, entity := range entities {
		payload, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to marshal %s entity: %w", table, err)
		}
		if _, err := stmt.Exec(id(entity), string(payload)); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
