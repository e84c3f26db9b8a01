// Package datasource defines how game state is loaded and saved, and
// provides the YAML file implementation bundles are read with.
package datasource

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

// Loader reads and writes one collection of records keyed by id.
type Loader[T any] interface {
	// HasData reports whether the collection exists at all.
	HasData(ctx context.Context) (bool, error)
	// FetchAll returns every record keyed by id.
	FetchAll(ctx context.Context) (map[string]T, error)
	// Fetch returns one record. Returns errors.NotFound when it is missing.
	Fetch(ctx context.Context, id string) (T, error)
	// Replace overwrites the whole collection.
	Replace(ctx context.Context, records map[string]T) error
	// Update writes one record.
	Update(ctx context.Context, id string, record T) error
}

// YAMLFileConfig configures a YAMLFile.
type YAMLFileConfig[T any] struct {
	Path string
	// ID returns the key of a record.
	ID func(T) string
}

// Validate checks the config.
func (c *YAMLFileConfig[T]) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", c.Path, vb)
	if c.ID == nil {
		vb.RequiredField("id")
	}
	return vb.Build()
}

// YAMLFile is a Loader over a YAML file holding a list of records.
type YAMLFile[T any] struct {
	path string
	id   func(T) string
}

// NewYAMLFile creates a loader for the file at cfg.Path.
func NewYAMLFile[T any](cfg *YAMLFileConfig[T]) (*YAMLFile[T], error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &YAMLFile[T]{path: cfg.Path, id: cfg.ID}, nil
}

// Path returns the file path.
func (f *YAMLFile[T]) Path() string {
	return f.path
}

// HasData reports whether the file exists.
func (f *YAMLFile[T]) HasData(_ context.Context) (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to stat %s", f.path).WithMeta("file", f.path)
}

// List returns the records in file order.
func (f *YAMLFile[T]) List(ctx context.Context) ([]T, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("file %s does not exist", f.path).WithMeta("file", f.path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", f.path).WithMeta("file", f.path)
	}

	var records []T
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid YAML in %s", f.path).
			WithMeta("file", f.path)
	}

	slog.DebugContext(ctx, "loaded yaml records",
		"file", f.path,
		"count", len(records))
	return records, nil
}

// FetchAll returns the records keyed by id. Later duplicates win.
func (f *YAMLFile[T]) FetchAll(ctx context.Context) (map[string]T, error) {
	records, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(records))
	for _, record := range records {
		out[f.id(record)] = record
	}
	return out, nil
}

// Fetch returns the record with the given id.
func (f *YAMLFile[T]) Fetch(ctx context.Context, id string) (T, error) {
	var zero T
	all, err := f.FetchAll(ctx)
	if err != nil {
		return zero, err
	}
	record, ok := all[id]
	if !ok {
		return zero, errors.NotFoundf("record %s not found in %s", id, f.path).
			WithMeta("file", f.path).
			WithMeta("id", id)
	}
	return record, nil
}

// Replace writes records to the file, sorted by id.
func (f *YAMLFile[T]) Replace(_ context.Context, records map[string]T) error {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	list := make([]T, 0, len(ids))
	for _, id := range ids {
		list = append(list, records[id])
	}
	return f.write(list)
}

// Update replaces or appends one record, keeping file order.
func (f *YAMLFile[T]) Update(ctx context.Context, id string, record T) error {
	records, err := f.List(ctx)
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	replaced := false
	for i := range records {
		if f.id(records[i]) == id {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return f.write(records)
}

func (f *YAMLFile[T]) write(records []T) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", f.path).WithMeta("file", f.path)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", f.path).WithMeta("file", f.path)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", f.path).WithMeta("file", f.path)
	}
	return nil
}
