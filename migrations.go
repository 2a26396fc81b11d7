package sitecms

import (
	"embed"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded SQL migrations of the site schema.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
