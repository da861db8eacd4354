package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
)

//go:embed migrations/*.sql
var embeddedSchema embed.FS

type schemaFile struct {
	name string
	data []byte
}

// ApplySchema runs every .sql file in dir, or the embedded schema when dir is
// empty or missing. Files are applied in name order and must be idempotent.
func ApplySchema(ctx context.Context, db *sql.DB, dir string) error {
	files, err := loadSchema(dir)
	if err != nil {
		return err
	}
	for _, sf := range files {
		if len(sf.data) == 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, string(sf.data)); err != nil {
			return fmt.Errorf("exec schema %s: %w", sf.name, err)
		}
	}
	return nil
}

func loadSchema(dir string) ([]schemaFile, error) {
	if dir != "" {
		files, err := readSchemaFS(os.DirFS(dir), ".")
		if err == nil {
			return files, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read schema dir: %w", err)
		}
	}
	files, err := readSchemaFS(embeddedSchema, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}
	return files, nil
}

func readSchemaFS(fsys fs.FS, root string) ([]schemaFile, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}
	var files []schemaFile
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		files = append(files, schemaFile{name: entry.Name(), data: data})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}
