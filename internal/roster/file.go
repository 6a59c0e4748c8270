package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/derby/internal/race"
)

// FileStore keeps the roster in a single human-readable file. Files ending in
// .toml are TOML, anything else is JSON. Unknown fields are ignored on load.
type FileStore struct {
	Path string
	Perm fs.FileMode
}

// NewFileStore returns a store for path with 0644 permissions.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path, Perm: 0o644}
}

func (s *FileStore) isTOML() bool {
	return strings.EqualFold(filepath.Ext(s.Path), ".toml")
}

// Load reads the roster. A missing file yields ErrNotFound.
func (s *FileStore) Load(ctx context.Context) ([]*race.Entrant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.Path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	var doc document
	if s.isTOML() {
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.Path, err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.Path, err)
		}
	}

	entrants, err := ToEntrants(doc.Entrants)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return entrants, nil
}

// Save replaces the roster file.
func (s *FileStore) Save(ctx context.Context, entrants []*race.Entrant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := document{Entrants: FromEntrants(entrants)}
	var buf bytes.Buffer
	if s.isTOML() {
		enc := toml.NewEncoder(&buf)
		enc.Indent = "\t"
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode roster: %w", err)
		}
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode roster: %w", err)
		}
	}

	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	return writeAtomic(s.Path, buf.Bytes(), perm)
}

// writeAtomic writes to a temp file beside path and renames it over the
// target, so readers see either the old roster or the new one.
func writeAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
