package repo

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// DB wraps the sql handle with the driver name so repos can rebind gendry's
// "?" placeholders for postgres.
type DB struct {
	*sql.DB
	driver string
}

func Open(driver, dsn string) (*DB, error) {
	name := "sqlite"
	if driver == "postgres" {
		name = "postgres"
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}
	if name == "sqlite" {
		// sqlite allows a single writer, and pooled connections would each
		// see their own copy of an in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &DB{DB: db, driver: driver}, nil
}

// Finalize rebinds a gendry-built query for the active driver.
func (d *DB) Finalize(query string, args []interface{}) (string, []interface{}) {
	if d.driver == "postgres" {
		return sqlx.Rebind(sqlx.DOLLAR, query), args
	}
	return query, args
}

func ApplyMigrations(db *DB) error {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		content, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
