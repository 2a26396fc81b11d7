package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const upSuffix = ".up.sql"

type appliedMigration struct {
	bun.BaseModel `bun:"table:schema_migrations,alias:sm"`

	Name      string    `bun:"name,pk"`
	AppliedAt time.Time `bun:"applied_at,notnull"`
}

// Migrate applies every *.up.sql file under dir that has not run yet, in
// lexical order. Applied names are tracked in schema_migrations. It returns
// the names applied by this call.
func Migrate(ctx context.Context, db *bun.DB, fsys fs.FS, dir string) ([]string, error) {
	if _, err := db.NewCreateTable().Model((*appliedMigration)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), upSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var done []appliedMigration
	if err := db.NewSelect().Model(&done).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}
	seen := make(map[string]struct{}, len(done))
	for _, m := range done {
		seen[m.Name] = struct{}{}
	}

	var applied []string
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		script, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range splitStatements(string(script)) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.NewInsert().Model(&appliedMigration{Name: name, AppliedAt: time.Now().UTC()}).Exec(ctx)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}

func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
