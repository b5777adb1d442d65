package runfile

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLocalStructures(t *testing.T) {
	t.Parallel()

	got, unterminated, err := decodeLocalStructures(block(
		"3",
		"#####START_LOCAL_STRUCTURE#1",
		"BASIN_A #####H_S_Q",
		"CAT2",
		"2",
		"10.0 0 0",
		"11.0 500 1.5",
		"#####END_LOCAL_STRUCTURE#1",
		"#####START_LOCAL_STRUCTURE#2",
		"CULVERT #####H_S",
		"CAT3",
		"1",
		"#####BOX",
		"3 2.4 1.2 9.0",
		"#####END_LOCAL_STRUCTURE#2",
		"#####START_LOCAL_STRUCTURE#3",
		"DAM #####H_S(TWC)",
		"CAT4",
		"2",
		"#####SCOUR",
		"1.0 8.0",
		"#####WEIR",
		"20.0 12.0 1.7",
	))
	require.NoError(t, err)
	assert.Equal(t, []int{3}, unterminated)
	assert.Equal(t, 3, got.Declared)
	require.Len(t, got.Structures, 3)

	assert.Equal(t, LocalStructure{
		Index:       1,
		Description: "BASIN_A #####H_S_Q",
		Subarea:     "CAT2",
		Kind:        StructureHSQ,
		Table: []StorageRow{
			{Head: 10, Storage: 0, Discharge: 0},
			{Head: 11, Storage: 500, Discharge: 1.5},
		},
	}, got.Structures[0])

	assert.Equal(t, LocalStructure{
		Index:       2,
		Description: "CULVERT #####H_S",
		Subarea:     "CAT3",
		Kind:        StructureHS,
		Outlets:     []Outlet{Box{Number: 3, Width: 2.4, Height: 1.2, Invert: 9}},
	}, got.Structures[1])

	assert.Equal(t, StructureHSTWC, got.Structures[2].Kind)
	assert.Equal(t, []Outlet{
		Scour{Width: 1, Invert: 8},
		Weir{Length: 20, Crest: 12, Coefficient: 1.7},
	}, got.Structures[2].Outlets)

	assert.Len(t, got.BySubarea("CAT4"), 1)
	assert.Empty(t, got.BySubarea("CAT1"))
}

func TestDecodeLocalStructuresErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		lines    []string
		wantErr  error
		wantLine int
	}{
		"missing sub-block": {
			lines: []string{
				"2",
				"#####START_LOCAL_STRUCTURE#1", "A #####H_S", "CAT1", "0", "#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrCountMismatch,
			wantLine: 11,
		},
		"extra sub-block": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "A #####H_S", "CAT1", "0", "#####END_LOCAL_STRUCTURE#1",
				"#####START_LOCAL_STRUCTURE#2", "B #####H_S", "CAT2", "0", "#####END_LOCAL_STRUCTURE#2",
			},
			wantErr:  ErrCountMismatch,
			wantLine: 11,
		},
		"unknown structure": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "A #####H_Q", "CAT1", "0", "#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrUnknownVariant,
			wantLine: 13,
		},
		"unknown outlet": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "A #####H_S", "CAT1", "1", "#####ORIFICE", "1 2",
				"#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrUnknownVariant,
			wantLine: 16,
		},
		"bad pipe geometry": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "A #####H_S(TWR)", "CAT1", "1", "#####PIPE", "1 0.9",
				"#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrMalformedSection,
			wantLine: 17,
		},
		"short table": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "A #####H_S_Q", "CAT1", "2", "1 2 3",
				"#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrMalformedSection,
			wantLine: 16,
		},
		"oversized structure count": {
			lines:    []string{"999999999999999999"},
			wantErr:  ErrCountMismatch,
			wantLine: 11,
		},
		"oversized outlet count": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "B #####H_S", "CAT1", "4611686018427387904",
				"#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrMalformedSection,
			wantLine: 15,
		},
		"oversized table rows": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "B #####H_S_Q", "CAT1", "9223372036854775807",
				"#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrMalformedSection,
			wantLine: 15,
		},
		"no keyword": {
			lines: []string{
				"1",
				"#####START_LOCAL_STRUCTURE#1", "A", "CAT1", "0", "#####END_LOCAL_STRUCTURE#1",
			},
			wantErr:  ErrMalformedSection,
			wantLine: 13,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, _, err := decodeLocalStructures(block(tc.lines...))
			require.ErrorIs(t, err, tc.wantErr)

			var sectionErr *SectionError
			require.True(t, errors.As(err, &sectionErr))
			assert.Equal(t, SectionLocalStructures, sectionErr.Section)
			assert.Equal(t, tc.wantLine, sectionErr.Line)
		})
	}
}
