package compat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapVersion_InvalidTable(t *testing.T) {
	_, err := MapVersion[string](nil, "0.5.0")
	require.ErrorIs(t, err, ErrInvalidTable)

	_, err = MapVersionMap(map[string]string{}, "0.5.0")
	require.ErrorIs(t, err, ErrInvalidTable)

	_, err = MapVersionMap[string](nil, "0.5.0")
	require.ErrorIs(t, err, ErrInvalidTable)

	_, err = NewVersionTableFromPairs([]Threshold[string]{})
	require.ErrorIs(t, err, ErrInvalidTable)

	_, err = NewVersionTableFromPairs[string](nil)
	require.ErrorIs(t, err, ErrInvalidTable)

	_, err = MapVersion(&VersionTable[string]{}, "0.5.0")
	require.ErrorIs(t, err, ErrInvalidTable)
}

func TestMustVersionTable_PanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() {
		MustVersionTable(map[string]int{})
	})
}

func TestMapVersion(t *testing.T) {
	fromMap, err := NewVersionTable(map[string]string{
		"1": "foo",
		"2": "bar",
		"3": "baz",
	})
	require.NoError(t, err)

	fromPairs, err := NewVersionTableFromPairs([]Threshold[string]{
		{Version: ParseVersion("3"), Value: "baz"},
		{Version: ParseVersion("1"), Value: "foo"},
		{Version: ParseVersion("2"), Value: "bar"},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "between thresholds", version: "1.1", want: "foo"},
		{name: "exact match", version: "2", want: "bar"},
		{name: "above every threshold", version: "4.5", want: "baz"},
		{name: "numeric not lexical", version: "11.11", want: "baz"},
		{name: "below every threshold", version: "0.1", want: "foo"},
		{name: "malformed falls back to lowest", version: "banana", want: "foo"},
	}

	for _, table := range []struct {
		name  string
		table *VersionTable[string]
	}{
		{"map", fromMap},
		{"pairs", fromPairs},
	} {
		for _, tt := range tests {
			t.Run(table.name+"/"+tt.name, func(t *testing.T) {
				got, err := MapVersion(table.table, tt.version)
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			})
		}
	}
}

func TestMapVersionMap(t *testing.T) {
	got, err := MapVersionMap(map[string]int{"0.18": 1, "0.20": 2}, "0.19.2")
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestVersionTable_NeverPicksHigherThreshold(t *testing.T) {
	table := MustVersionTable(map[string]string{
		"0.18":     "a",
		"0.20":     "b",
		"0.20.203": "c",
		"1.0":      "d",
	})

	for _, threshold := range table.Thresholds() {
		require.Equal(t, threshold.Value, table.ResolveVersion(threshold.Version),
			"threshold %s must resolve to its own value", threshold.Version)
	}

	require.Equal(t, "b", table.Resolve("0.20.202"))
	require.Equal(t, "c", table.Resolve("0.20.205"))
	require.Equal(t, "a", table.Resolve("0.17"))
}

func TestVersionTable_DuplicatePairsLaterWins(t *testing.T) {
	table, err := NewVersionTableFromPairs([]Threshold[string]{
		{Version: ParseVersion("1"), Value: "first"},
		{Version: ParseVersion("1"), Value: "second"},
	})
	require.NoError(t, err)
	require.Equal(t, "second", table.Resolve("1.5"))
	require.Equal(t, 2, table.Len())
}

func TestVersionTable_PairsAreCopied(t *testing.T) {
	pairs := []Threshold[string]{
		{Version: ParseVersion("1"), Value: "foo"},
	}
	table, err := NewVersionTableFromPairs(pairs)
	require.NoError(t, err)

	pairs[0].Value = "mutated"
	require.Equal(t, "foo", table.Resolve("1"))
}

func TestMapVersion_ErrorIsNotLookupMiss(t *testing.T) {
	_, err := MapVersionMap(map[string]bool{}, "1.0")
	require.True(t, errors.Is(err, ErrInvalidTable))
	require.Contains(t, err.Error(), `"1.0"`)
}

func TestNewVersionTable_RejectsEqualVersions(t *testing.T) {
	for _, m := range []map[string]string{
		{"1.2": "a", "1.02": "b"},
		{"2": "a", "2.0": "b", "3": "c"},
	} {
		_, err := NewVersionTable(m)
		require.ErrorIs(t, err, ErrInvalidTable)
	}

	require.Panics(t, func() {
		MustVersionTable(map[string]int{"1": 1, "1.0": 2})
	})
}
