package assets

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var FS embed.FS

// Migrations returns the SQL migration files rooted at the migrations directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
