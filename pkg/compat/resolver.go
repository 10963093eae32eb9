package compat

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrInvalidTable is returned when a version table is nil or empty.
var ErrInvalidTable = errors.New("invalid version table")

// Threshold pairs a minimum version with the value that takes effect there.
type Threshold[T any] struct {
	Version LooseVersion
	Value   T
}

// VersionTable maps minimum versions to values. It is sorted ascending by
// version and never empty; it is not modified after construction.
type VersionTable[T any] struct {
	entries []Threshold[T]
}

// NewVersionTable builds a table from a map keyed by version strings. Keys
// that parse to equal versions, such as "2" and "2.0", are rejected.
func NewVersionTable[T any](m map[string]T) (*VersionTable[T], error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("version map is empty: %w", ErrInvalidTable)
	}

	pairs := make([]Threshold[T], 0, len(m))
	for version, value := range m {
		pairs = append(pairs, Threshold[T]{Version: ParseVersion(version), Value: value})
	}

	table := newSortedTable(pairs)
	for i := 1; i < len(table.entries); i++ {
		prev, cur := table.entries[i-1].Version, table.entries[i].Version
		if prev.Equal(cur) {
			return nil, fmt.Errorf("versions %q and %q are equal: %w", prev, cur, ErrInvalidTable)
		}
	}
	return table, nil
}

// NewVersionTableFromPairs builds a table from explicit (version, value)
// pairs. The pairs need not be sorted; for duplicate versions the later pair
// wins.
func NewVersionTableFromPairs[T any](pairs []Threshold[T]) (*VersionTable[T], error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("version pairs are empty: %w", ErrInvalidTable)
	}
	return newSortedTable(slices.Clone(pairs)), nil
}

// MustVersionTable is like NewVersionTable but panics on error. It is meant
// for package-level tables.
func MustVersionTable[T any](m map[string]T) *VersionTable[T] {
	t, err := NewVersionTable(m)
	if err != nil {
		panic(err)
	}
	return t
}

func newSortedTable[T any](pairs []Threshold[T]) *VersionTable[T] {
	slices.SortStableFunc(pairs, func(a, b Threshold[T]) int {
		return a.Version.Compare(b.Version)
	})
	return &VersionTable[T]{entries: pairs}
}

// Len returns the number of thresholds in the table.
func (t *VersionTable[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Thresholds returns a copy of the table's entries in ascending order.
func (t *VersionTable[T]) Thresholds() []Threshold[T] {
	if t == nil {
		return nil
	}
	return slices.Clone(t.entries)
}

// Resolve returns the value of the greatest threshold that is less than or
// equal to version. Versions below every threshold get the lowest
// threshold's value.
func (t *VersionTable[T]) Resolve(version string) T {
	return t.ResolveVersion(ParseVersion(version))
}

// ResolveVersion is Resolve for an already parsed version.
func (t *VersionTable[T]) ResolveVersion(v LooseVersion) T {
	// first threshold strictly above v
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Version.Compare(v) > 0
	})
	if i == 0 {
		return t.entries[0].Value
	}
	return t.entries[i-1].Value
}

// MapVersion resolves version against table. It fails with ErrInvalidTable
// when table is nil or empty.
func MapVersion[T any](table *VersionTable[T], version string) (T, error) {
	if table.Len() == 0 {
		var zero T
		return zero, fmt.Errorf("cannot map version %q: %w", version, ErrInvalidTable)
	}
	return table.Resolve(version), nil
}

// MapVersionMap resolves version against a map keyed by version strings.
func MapVersionMap[T any](m map[string]T, version string) (T, error) {
	table, err := NewVersionTable(m)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("cannot map version %q: %w", version, err)
	}
	return table.Resolve(version), nil
}
