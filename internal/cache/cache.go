package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Operation names a retrieval step. It is the filename prefix of the
// artifact the step produces.
type Operation string

const (
	GetDatabase   Operation = "getDatabase"
	QueryDatabase Operation = "queryDatabase"
	GetPage       Operation = "getPage"
	GetBlocks     Operation = "getBlocks"
)

const artifactExt = ".json"

// FileMode is applied to every file written into the import folder.
// Temp files start out 0600 and keep their mode across the rename.
const FileMode os.FileMode = 0o644

// Artifact describes the outcome of one cache lookup.
type Artifact struct {
	Path string
	Skip bool
	Hit  bool
}

// Entry is an artifact found on disk by List.
type Entry struct {
	Key  string
	Path string
}

// Store handles the on-disk JSON artifacts of past imports.
type Store struct {
	dir string
}

// NewStore creates the import folder if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create import dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the import folder.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns <dir>/<op>-<key>.json.
func (s *Store) Path(op Operation, key string) string {
	return filepath.Join(s.dir, string(op)+"-"+key+artifactExt)
}

// Load reads the artifact for (op, key) when skip is set. A missing or
// unparsable file is a miss, never an error.
func Load[T any](s *Store, op Operation, key string, skip bool) (T, Artifact) {
	var value T
	artifact := Artifact{Path: s.Path(op, key), Skip: skip}
	if !skip {
		return value, artifact
	}

	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return value, artifact
	}

	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return value, artifact
	}

	artifact.Hit = true
	return decoded, artifact
}

// Persist writes v as two-space indented JSON. The file is written to a
// temp file first and renamed over the target, so an existing artifact is
// either fully replaced or left untouched.
func (s *Store) Persist(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Chmod(FileMode); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// Encode renders v the way artifacts are stored: two-space indent, no
// HTML escaping and no trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// List returns the artifacts of one operation in filename order.
func (s *Store) List(op Operation) ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	prefix := string(op) + "-"
	var out []Entry
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, prefix), artifactExt)
		if key == "" {
			continue
		}
		out = append(out, Entry{Key: key, Path: filepath.Join(s.dir, name)})
	}
	return out, nil
}
