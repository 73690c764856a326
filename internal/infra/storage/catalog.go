package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keydojo/keydojo-cli/internal/catalog"

	_ "modernc.org/sqlite"
)

const (
	dataDir    = ".keydojo"
	dbFileName = "keydojo.db"
)

// App summarises one imported catalog.
type App struct {
	Name       string    `json:"name"`
	Version    int       `json:"version"`
	Shortcuts  int       `json:"shortcuts"`
	ImportedAt time.Time `json:"imported_at"`
}

// Store persists imported shortcut catalogs in a sqlite database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.keydojo/keydojo.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dataDir, dbFileName), nil
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := initCatalogDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// initCatalogDB initializes the database schema
func initCatalogDB(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS apps (
		name TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		imported_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shortcuts (
		app TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		context TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		xp INTEGER NOT NULL,
		keys_windows TEXT NOT NULL,
		keys_mac TEXT NOT NULL,
		keys_linux TEXT NOT NULL,
		PRIMARY KEY (app, id),
		FOREIGN KEY (app) REFERENCES apps(name)
	);

	CREATE INDEX IF NOT EXISTS idx_shortcuts_app_position ON shortcuts(app, position);
	`

	_, err := db.Exec(schema)
	return err
}

// ImportCatalog replaces the stored shortcuts of c.App with c's shortcuts
// in a single transaction.
func (s *Store) ImportCatalog(ctx context.Context, c *catalog.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	upsertApp := `INSERT INTO apps (name, version, imported_at) VALUES (?, ?, ?)
	              ON CONFLICT(name) DO UPDATE SET version = excluded.version, imported_at = excluded.imported_at`
	if _, err := tx.ExecContext(ctx, upsertApp, c.App, c.Version, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert app: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shortcuts WHERE app = ?`, c.App); err != nil {
		return fmt.Errorf("failed to clear shortcuts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shortcuts
		(app, id, position, name, description, category, context, difficulty, xp, keys_windows, keys_mac, keys_linux)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, sc := range c.Shortcuts {
		_, err := stmt.ExecContext(ctx, c.App, sc.ID, i, sc.Name, sc.Description, sc.Category,
			sc.Context, sc.Difficulty, sc.XP, sc.Keys.Windows, sc.Keys.Mac, sc.Keys.Linux)
		if err != nil {
			return fmt.Errorf("failed to insert shortcut %q: %w", sc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// ListApps returns every stored app ordered by name.
func (s *Store) ListApps(ctx context.Context) ([]App, error) {
	query := `SELECT a.name, a.version, a.imported_at, COUNT(s.id)
	          FROM apps a LEFT JOIN shortcuts s ON s.app = a.name
	          GROUP BY a.name ORDER BY a.name`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}
	defer rows.Close()

	var apps []App
	for rows.Next() {
		var a App
		if err := rows.Scan(&a.Name, &a.Version, &a.ImportedAt, &a.Shortcuts); err != nil {
			return nil, fmt.Errorf("failed to scan app: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListShortcuts returns the shortcuts of app in import order. An empty app
// lists every stored shortcut.
func (s *Store) ListShortcuts(ctx context.Context, app string) ([]catalog.Shortcut, error) {
	query := `SELECT app, id, name, description, category, context, difficulty, xp,
	                 keys_windows, keys_mac, keys_linux
	          FROM shortcuts
	          WHERE ? = '' OR app = ?
	          ORDER BY app, position`
	rows, err := s.db.QueryContext(ctx, query, app, app)
	if err != nil {
		return nil, fmt.Errorf("failed to query shortcuts: %w", err)
	}
	defer rows.Close()

	var out []catalog.Shortcut
	for rows.Next() {
		var sc catalog.Shortcut
		err := rows.Scan(
			&sc.App,
			&sc.ID,
			&sc.Name,
			&sc.Description,
			&sc.Category,
			&sc.Context,
			&sc.Difficulty,
			&sc.XP,
			&sc.Keys.Windows,
			&sc.Keys.Mac,
			&sc.Keys.Linux,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shortcut: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// DeleteApp removes an app and its shortcuts. Deleting an unknown app is not
// an error.
func (s *Store) DeleteApp(ctx context.Context, app string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shortcuts WHERE app = ?`, app); err != nil {
		return fmt.Errorf("failed to delete shortcuts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM apps WHERE name = ?`, app); err != nil {
		return fmt.Errorf("failed to delete app: %w", err)
	}
	return tx.Commit()
}
