package localfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/riskibarqy/sportsdata-ingest/internal/platform/codec"
	"github.com/valyala/bytebufferpool"
)

// ErrUnexpectedShape is returned when a file holds JSON of the wrong kind.
var ErrUnexpectedShape = errors.New("unexpected json shape")

// Store reads and writes the UTF-8 JSON files exchanged between fetch and
// load runs.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

// ReadRecords accepts a top-level array of objects, or a single object which
// is returned as a one-element list.
func (s *Store) ReadRecords(path string) ([]map[string]any, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var value any
	if err := codec.Decode(raw, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	switch typed := value.(type) {
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for idx, item := range typed {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s element %d is %T, expected object", ErrUnexpectedShape, path, idx, item)
			}
			out = append(out, rec)
		}
		return out, nil
	case map[string]any:
		return []map[string]any{typed}, nil
	default:
		return nil, fmt.Errorf("%w: %s holds %T, expected array or object", ErrUnexpectedShape, path, value)
	}
}

// ReadDocument reads a file holding one JSON object.
func (s *Store) ReadDocument(path string) (map[string]any, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := codec.Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s is not a json object", ErrUnexpectedShape, path)
	}
	return doc, nil
}

// WriteJSON writes value as two-space indented JSON, creating parent
// directories. The file is replaced atomically.
func (s *Store) WriteJSON(path string, value any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := codec.WriteIndented(buf, value); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("input file %s does not exist: %w", path, err)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
