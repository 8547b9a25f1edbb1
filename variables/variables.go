// Package variables implements the shell's variable store: an ordered
// mapping from name to byte-string value with a borrow-level entry API.
//
// Grounded on mvdan.cc/sh/v3/interp/vars.go's mapEnviron, generalized
// to the BTreeMap<OsString, OsString> plus Entry API described in
// original_source/src/env/variables.rs.
package variables

import "sort"

// Store is an ordered mapping from name to value, both opaque byte
// strings. Iteration order is the sorted order of names. A name that
// is absent and a name mapped to the empty value are distinguishable
// everywhere except through Value.
type Store struct {
	values map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Clone returns a deep copy of s, used when entering a brace-group's
// cloned execution context.
func (s *Store) Clone() *Store {
	clone := &Store{values: make(map[string][]byte, len(s.values))}
	for k, v := range s.values {
		cp := make([]byte, len(v))
		copy(cp, v)
		clone.values[k] = cp
	}
	return clone
}

// Define inserts or overwrites name with value. Never fails.
func (s *Store) Define(name string, value []byte) {
	if s.values == nil {
		s.values = make(map[string][]byte)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.values[name] = cp
}

// DefineString is a convenience wrapper around Define for string values.
func (s *Store) DefineString(name, value string) {
	s.Define(name, []byte(value))
}

// Remove deletes name. Idempotent.
func (s *Store) Remove(name string) {
	delete(s.values, name)
}

// Value returns the value for name, or the empty string if absent.
// Callers cannot distinguish absent from empty through this method.
func (s *Store) Value(name string) []byte {
	return s.values[name]
}

// ValueString is Value as a string.
func (s *Store) ValueString(name string) string {
	return string(s.values[name])
}

// HasValue reports whether name is present and non-empty.
func (s *Store) HasValue(name string) bool {
	v, ok := s.values[name]
	return ok && len(v) > 0
}

// Exists reports whether name is present at all, regardless of value.
func (s *Store) Exists(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names returns all defined names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Entry returns a handle for name supporting the POSIX
// parameter-expansion defaulting forms ${x-v}, ${x:-v}, ${x=v},
// ${x:=v}.
func (s *Store) Entry(name string) Entry {
	return Entry{store: s, name: name}
}

// Entry is an abstract handle on a single variable, grounded on the
// Rust Entry enum's Occupied/Vacant split (original_source/src/env/variables.rs).
type Entry struct {
	store *Store
	name  string
}

// Name returns the entry's variable name.
func (e Entry) Name() string { return e.name }

// Read returns the current value, empty if absent.
func (e Entry) Read() []byte {
	return e.store.Value(e.name)
}

// Write sets the value unconditionally.
func (e Entry) Write(value []byte) {
	e.store.Define(e.name, value)
}

// OrDefault implements ${x-v}: read the current value if present,
// otherwise return v without inserting it.
func (e Entry) OrDefault(v []byte) []byte {
	if e.store.Exists(e.name) {
		return e.store.Value(e.name)
	}
	return v
}

// OrDefaultIfEmpty implements ${x:-v}: as OrDefault, but treats an
// empty value the same as absent.
func (e Entry) OrDefaultIfEmpty(v []byte) []byte {
	if e.store.HasValue(e.name) {
		return e.store.Value(e.name)
	}
	return v
}

// OrInsert implements ${x=v}: write v if absent, return the
// (possibly newly written) value.
func (e Entry) OrInsert(v []byte) []byte {
	if !e.store.Exists(e.name) {
		e.store.Define(e.name, v)
	}
	return e.store.Value(e.name)
}

// OrInsertIfEmpty implements ${x:=v}: write v if absent or empty,
// return the (possibly newly written) value.
func (e Entry) OrInsertIfEmpty(v []byte) []byte {
	if !e.store.HasValue(e.name) {
		e.store.Define(e.name, v)
	}
	return e.store.Value(e.name)
}
