package seed

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

const defaultPattern = "*.md"

// LoadDirectory parses every file under root matching pattern, walking
// sub-directories. Documents are returned sorted by path.
func LoadDirectory(ctx context.Context, fsys fs.FS, root, pattern string) ([]*Document, error) {
	if pattern == "" {
		pattern = defaultPattern
	}
	if root == "" {
		root = "."
	}

	var docs []*Document
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		match, err := path.Match(pattern, path.Base(p))
		if err != nil {
			return fmt.Errorf("seed pattern %q: %w", pattern, err)
		}
		if !match {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("seed read %s: %w", p, err)
		}
		doc, err := ParseDocument(p, data)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs, nil
}
