// Package migrations embeds the goose SQL migrations for every storage driver.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// Postgres returns the PostgreSQL migrations rooted at the migration files.
func Postgres() fs.FS { return mustSub(postgresFS, "postgres") }

// SQLite returns the SQLite migrations rooted at the migration files.
func SQLite() fs.FS { return mustSub(sqliteFS, "sqlite") }

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
