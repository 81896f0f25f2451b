package signature

import (
	"sort"
	"sync"
)

type endpoint struct {
	port     int
	protocol string
}

// Database owns a set of signatures keyed by name and maintains a derived
// (port, protocol) index for endpoint lookups. Multiple signatures may share
// an endpoint. Writers are mutually exclusive with each other and with
// readers; a single RWMutex guards both the name map and the index so they
// can never be observed out of sync.
type Database struct {
	mu         sync.RWMutex
	byName     map[string]*Signature
	byEndpoint map[endpoint][]string // signature names in insertion order
}

// NewDatabase creates an empty signature database.
func NewDatabase() *Database {
	return &Database{
		byName:     make(map[string]*Signature),
		byEndpoint: make(map[endpoint][]string),
	}
}

// Add registers sig under its name and indexes its endpoint. Adding a name
// that is already registered fails with ErrDuplicateSignature and leaves the
// database unchanged; custom signatures are never silently overwritten.
func (db *Database) Add(sig *Signature) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.addLocked(sig)
}

func (db *Database) addLocked(sig *Signature) error {
	if _, exists := db.byName[sig.Name()]; exists {
		return &DuplicateSignatureError{Name: sig.Name()}
	}
	db.byName[sig.Name()] = sig
	key := endpoint{port: sig.Port(), protocol: sig.Protocol()}
	db.byEndpoint[key] = append(db.byEndpoint[key], sig.Name())
	return nil
}

// Remove deletes the signature registered under name and drops it from the
// endpoint index. Fails with ErrSignatureNotFound if the name is absent.
func (db *Database) Remove(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	sig, exists := db.byName[name]
	if !exists {
		return &NotFoundError{Name: name}
	}
	delete(db.byName, name)

	key := endpoint{port: sig.Port(), protocol: sig.Protocol()}
	names := db.byEndpoint[key]
	for i, n := range names {
		if n == name {
			db.byEndpoint[key] = append(names[:i], names[i+1:]...)
			break
		}
	}
	if len(db.byEndpoint[key]) == 0 {
		delete(db.byEndpoint, key)
	}
	return nil
}

// GetByName returns the signature registered under name, or
// ErrSignatureNotFound.
func (db *Database) GetByName(name string) (*Signature, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	sig, exists := db.byName[name]
	if !exists {
		return nil, &NotFoundError{Name: name}
	}
	return sig, nil
}

// FindByPort returns all signatures registered under the exact
// (port, protocol) endpoint, in insertion order. An unknown endpoint yields an
// empty slice, not an error.
func (db *Database) FindByPort(port int, protocol string) []*Signature {
	proto, _ := NormalizeProtocol(protocol)

	db.mu.RLock()
	defer db.mu.RUnlock()

	names := db.byEndpoint[endpoint{port: port, protocol: proto}]
	out := make([]*Signature, 0, len(names))
	for _, n := range names {
		out = append(out, db.byName[n])
	}
	return out
}

// FindByPattern returns every signature whose patterns match data, regardless
// of port, in name order.
func (db *Database) FindByPattern(data []byte) []*Signature {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var out []*Signature
	for _, sig := range db.byName {
		if sig.Matches(data) {
			out = append(out, sig)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ListAll returns every registered signature sorted by name for deterministic
// enumeration.
func (db *Database) ListAll() []*Signature {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]*Signature, 0, len(db.byName))
	for _, sig := range db.byName {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Len returns the number of registered signatures.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.byName)
}

// Replace atomically swaps the database contents for sigs. The new state is
// fully built and indexed before the swap, so a validation failure (for
// example a duplicate name inside sigs) leaves the current contents
// untouched.
func (db *Database) Replace(sigs []*Signature) error {
	staged := NewDatabase()
	for _, sig := range sigs {
		if err := staged.addLocked(sig); err != nil {
			return err
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.byName = staged.byName
	db.byEndpoint = staged.byEndpoint
	return nil
}
