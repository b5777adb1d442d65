package runfile

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(lines ...string) Block {
	return Block{Lines: lines, Offset: 10, Found: true, Terminated: true}
}

func TestDecodeTopology(t *testing.T) {
	t.Parallel()

	topo, err := decodeTopology(block(
		"2   Murarrie Creek  ",
		"CAT1 100 200 110 210 CAT2",
		"CAT2 150 250 160 260 SINK",
	))
	require.NoError(t, err)

	assert.Equal(t, 2, topo.Declared)
	assert.Equal(t, "Murarrie Creek", topo.Name)
	require.Len(t, topo.Catchments, 2)

	cat1, ok := topo.Lookup("CAT1")
	require.True(t, ok)
	assert.Equal(t, Catchment{
		Name:       "CAT1",
		Centroid:   Point{E: 100, N: 200},
		Outlet:     Point{E: 110, N: 210},
		Downstream: "CAT2",
	}, cat1)
	assert.False(t, cat1.IsOutlet())

	cat2, ok := topo.Lookup("CAT2")
	require.True(t, ok)
	assert.True(t, cat2.IsOutlet())

	_, ok = topo.Lookup("CAT3")
	assert.False(t, ok)
}

func TestDecodeTopologyErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		lines    []string
		wantLine int
	}{
		"empty":            {lines: nil},
		"header not count": {lines: []string{"Murarrie"}, wantLine: 11},
		"five tokens":      {lines: []string{"1 x", "CAT1 100 200 110 210"}, wantLine: 12},
		"seven tokens":     {lines: []string{"1 x", "CAT1 100 200 110 210 CAT2 extra"}, wantLine: 12},
		"not a number":     {lines: []string{"1 x", "CAT1 100 abc 110 210 CAT2"}, wantLine: 12},
		"duplicate": {
			lines:    []string{"2 x", "CAT1 100 200 110 210 SINK", "CAT1 100 200 110 210 SINK"},
			wantLine: 13,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeTopology(block(tc.lines...))
			require.ErrorIs(t, err, ErrMalformedSection)

			var sectionErr *SectionError
			require.True(t, errors.As(err, &sectionErr))
			assert.Equal(t, SectionTopology, sectionErr.Section)
			assert.Equal(t, tc.wantLine, sectionErr.Line)
		})
	}
}

func TestDecodeSurfaces(t *testing.T) {
	t.Parallel()

	surfaces, err := decodeSurfaces(block(
		"0.77 2.0",
		"  name area imp lag imp_lag",
		"CAT1 12.5 20.0 1.6 0.1",
	))
	require.NoError(t, err)

	assert.InDelta(t, 0.77, surfaces.NonlinearityExponent, 1e-9)
	assert.InDelta(t, 2.0, surfaces.SwitchDischarge, 1e-9)
	assert.Equal(t, "  name area imp lag imp_lag", surfaces.Reserved)

	cat1, ok := surfaces.Lookup("CAT1")
	require.True(t, ok)
	assert.Equal(t, Surface{Name: "CAT1", Area: 12.5, PercentImpervious: 20, Lag: 1.6, ImperviousLag: 0.1}, cat1)

	_, err = decodeSurfaces(block("0.77"))
	assert.ErrorIs(t, err, ErrMalformedSection)

	_, err = decodeSurfaces(block("0.77 2.0", "", "CAT1 12.5 20.0 1.6"))
	assert.ErrorIs(t, err, ErrMalformedSection)
}

func TestDecodeFlowpaths(t *testing.T) {
	t.Parallel()

	paths, err := decodeFlowpaths(block(
		"3",
		"CAT1", "#####ROUTING", "1.0",
		"  CAT2  ", "#####MUSK", "0.5 0.3",
		"CAT3", "  #####DELAY  ", "15",
	))
	require.NoError(t, err)
	require.Len(t, paths.Paths, 3)

	assert.Equal(t, Flowpath{Name: "CAT1", Routing: Lag{StreamLag: 1}}, paths.Paths[0])
	assert.Equal(t, Flowpath{Name: "CAT2", Routing: Muskingum{K: 0.5, X: 0.3}}, paths.Paths[1])
	assert.Equal(t, Flowpath{Name: "CAT3", Routing: Delay{Delay: 15}}, paths.Paths[2])

	musk, ok := paths.Lookup("CAT2")
	require.True(t, ok)
	assert.Equal(t, RoutingMuskingum, musk.Routing.Kind())
	assert.Equal(t, "musk", musk.Routing.Kind().String())
}

func TestDecodeFlowpathsErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		lines    []string
		wantErr  error
		wantLine int
	}{
		"unknown keyword": {
			lines:    []string{"1", "CAT1", "#####KINEMATIC", "1.0"},
			wantErr:  ErrUnknownVariant,
			wantLine: 13,
		},
		"lowercase keyword": {
			lines:    []string{"1", "CAT1", "#####musk", "0.5 0.3"},
			wantErr:  ErrUnknownVariant,
			wantLine: 13,
		},
		"musk needs two values": {
			lines:    []string{"1", "CAT1", "#####MUSK", "0.5"},
			wantErr:  ErrMalformedSection,
			wantLine: 14,
		},
		"delay takes one value": {
			lines:    []string{"1", "CAT1", "#####DELAY", "1 2"},
			wantErr:  ErrMalformedSection,
			wantLine: 14,
		},
		"partial group": {
			lines:    []string{"1", "CAT1", "#####DELAY"},
			wantErr:  ErrMalformedSection,
			wantLine: 13,
		},
		"count mismatch": {
			lines:    []string{"2", "CAT1", "#####DELAY", "1"},
			wantErr:  ErrCountMismatch,
			wantLine: 11,
		},
		"bad count": {
			lines:    []string{"three"},
			wantErr:  ErrMalformedSection,
			wantLine: 11,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeFlowpaths(block(tc.lines...))
			require.ErrorIs(t, err, tc.wantErr)

			var sectionErr *SectionError
			require.True(t, errors.As(err, &sectionErr))
			assert.Equal(t, SectionFlowpaths, sectionErr.Section)
			assert.Equal(t, tc.wantLine, sectionErr.Line)
		})
	}
}

func TestParseRoutingKind(t *testing.T) {
	t.Parallel()

	for keyword, want := range map[string]RoutingKind{
		"#####ROUTING": RoutingLag,
		"#####DELAY":   RoutingDelay,
		"#####MUSK":    RoutingMuskingum,
		"MUSK":         RoutingMuskingum,
	} {
		got, err := ParseRoutingKind(keyword)
		require.NoError(t, err, keyword)
		assert.Equal(t, want, got, keyword)
	}

	for _, keyword := range []string{"", "#####", "#####ROUTE", "#####MUSKINGUM"} {
		_, err := ParseRoutingKind(keyword)
		assert.ErrorIs(t, err, ErrUnknownVariant, keyword)
	}
}

func TestDecodeStatusAndDisplay(t *testing.T) {
	t.Parallel()

	status, err := decodeStatus(block(" C:\\run.wbn ", "today", "name", "2017", "ignored"))
	require.NoError(t, err)
	assert.Equal(t, Status{Pathname: "C:\\run.wbn", LastEdit: "today", Name: "name", Version: "2017"}, status)

	_, err = decodeStatus(block("a", "b", "c"))
	assert.ErrorIs(t, err, ErrMalformedSection)

	display, err := decodeDisplay(block("0 0 800 600", " map file.bmp ", "1.5 2.5"))
	require.NoError(t, err)
	assert.Equal(t, &Display{
		WindowCoords: []float64{0, 0, 800, 600},
		MapFile:      " map file.bmp ",
		MapCoords:    []float64{1.5, 2.5},
	}, display)

	_, err = decodeDisplay(block("0 0 x 600", "map", "1 2"))
	assert.ErrorIs(t, err, ErrMalformedSection)

	_, err = decodeDisplay(block("0 0 800 600", "map"))
	assert.ErrorIs(t, err, ErrMalformedSection)
}
