package signature

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Format identifies a catalog serialization format.
type Format string

const (
	// FormatYAML is the native catalog format.
	FormatYAML Format = "yaml"
	// FormatJSON is supported for interop with other tooling.
	FormatJSON Format = "json"
)

// FormatForPath picks a serialization format from a file extension,
// defaulting to YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Load reads a catalog from r and atomically replaces the database contents.
// The catalog is parsed and indexed into a staging structure first; any
// failure leaves the current contents untouched.
func (db *Database) Load(r io.Reader, format Format) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}

	var sigs []*Signature
	switch format {
	case FormatJSON:
		sigs, err = ParseCatalogJSON(data)
	default:
		sigs, err = ParseCatalogYAML(data)
	}
	if err != nil {
		return err
	}

	if err := db.Replace(sigs); err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	return nil
}

// LoadFile loads a catalog file, picking the format from the extension.
func (db *Database) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if err := db.Load(f, FormatForPath(path)); err != nil {
		if perr, ok := err.(*PersistenceError); ok && perr.Path == "" {
			perr.Path = path
		}
		return err
	}
	log.Debug().Str("path", path).Int("signatures", db.Len()).Msg("signature catalog loaded")
	return nil
}

// Save writes the full signature set to w. Records are emitted in name order,
// though load order never affects enumeration, which is always name-sorted.
func (db *Database) Save(w io.Writer, format Format) error {
	sigs := db.ListAll()
	records := make([]Record, 0, len(sigs))
	for _, sig := range sigs {
		records = append(records, RecordOf(sig))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
	default:
		wrapper := struct {
			Signatures []Record `yaml:"signatures"`
		}{Signatures: records}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wrapper); err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
		if err := enc.Close(); err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
	}
	return nil
}

// SaveFile writes the catalog to path. The write goes to a temporary file in
// the destination directory and is renamed into place, under an advisory file
// lock so concurrent invocations do not interleave.
func (db *Database) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("acquire lock: %w", err)}
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, ".catalog-*")
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := db.Save(tmp, FormatForPath(path)); err != nil {
		_ = tmp.Close()
		if perr, ok := err.(*PersistenceError); ok && perr.Path == "" {
			perr.Path = path
		}
		return err
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	log.Debug().Str("path", path).Int("signatures", db.Len()).Msg("signature catalog saved")
	return nil
}
