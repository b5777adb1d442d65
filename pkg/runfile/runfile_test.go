package runfile_test

import (
	"bufio"
	"io"
	"io/fs"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/go-wbnm/pkg/runfile"
)

const fixture = "testdata/murarrie.wbn"

func TestReadFile(t *testing.T) {
	t.Parallel()

	rf, err := runfile.ReadFile(fixture)
	require.NoError(t, err)

	assert.Equal(t, []string{"WBNM runfile", "Created by the WBNM editor"}, rf.Preamble)
	assert.Equal(t, runfile.Status{
		Pathname: `C:\models\murarrie.wbn`,
		LastEdit: "04/09/2020 10:15",
		Name:     "Murarrie Creek",
		Version:  "2017",
	}, rf.Status)

	require.NotNil(t, rf.Display)
	assert.Equal(t, "murarrie_map.bmp", rf.Display.MapFile)
	assert.Equal(t, []float64{0, 0, 800, 600}, rf.Display.WindowCoords)

	assert.Equal(t, 4, rf.Topology.Declared)
	assert.Equal(t, "Murarrie Creek", rf.Topology.Name)
	require.Len(t, rf.Topology.Catchments, 4)
	assert.Equal(t, "CAT1", rf.Topology.Catchments[0].Name)
	assert.Equal(t, "SINK", rf.Topology.Catchments[3].Downstream)

	assert.InDelta(t, 0.77, rf.Surfaces.NonlinearityExponent, 1e-9)
	assert.Len(t, rf.Surfaces.Catchments, 4)

	assert.Equal(t, 3, rf.Flowpaths.Declared)
	musk, ok := rf.Flowpaths.Lookup("CAT2")
	require.True(t, ok)
	assert.Equal(t, runfile.Muskingum{K: 0.5, X: 0.3}, musk.Routing)

	require.Len(t, rf.LocalStructures.Structures, 2)
	assert.Equal(t, runfile.StructureHSQ, rf.LocalStructures.Structures[0].Kind)
	assert.Equal(t, runfile.StructureHSTWF, rf.LocalStructures.Structures[1].Kind)
	assert.Equal(t, []runfile.Outlet{
		runfile.Pipe{Number: 2, Diameter: 0.9, Invert: 9.5},
		runfile.Weir{Length: 20, Crest: 12, Coefficient: 1.7},
	}, rf.LocalStructures.Structures[1].Outlets)
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := runfile.ReadFile("testdata/does-not-exist.wbn")
	assert.ErrorIs(t, err, runfile.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadLinesErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		r    io.Reader
		want error
	}{
		"source error": {
			r:    iotest.ErrReader(iotest.ErrTimeout),
			want: iotest.ErrTimeout,
		},
		"line too long": {
			r:    strings.NewReader(strings.Repeat("x", bufio.MaxScanTokenSize+1)),
			want: bufio.ErrTooLong,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := runfile.ReadLines(tc.r)
			require.ErrorIs(t, err, runfile.ErrIO)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	lines := readFixture(t)

	first, err := runfile.Parse(lines)
	require.NoError(t, err)
	second, err := runfile.Parse(lines)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseCRLF(t *testing.T) {
	t.Parallel()

	lines := readFixture(t)
	crlf := strings.Join(lines, "\r\n") + "\r\n"

	converted, err := runfile.ReadLines(strings.NewReader(crlf))
	require.NoError(t, err)
	assert.Equal(t, lines, converted)
}

func TestParseMissingSection(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		drop    runfile.Section
		wantErr error
	}{
		"status":           {drop: runfile.SectionStatus, wantErr: runfile.ErrMissingSection},
		"topology":         {drop: runfile.SectionTopology, wantErr: runfile.ErrMissingSection},
		"surfaces":         {drop: runfile.SectionSurfaces, wantErr: runfile.ErrMissingSection},
		"flowpaths":        {drop: runfile.SectionFlowpaths, wantErr: runfile.ErrMissingSection},
		"preamble":         {drop: runfile.SectionPreamble},
		"display":          {drop: runfile.SectionDisplay},
		"local structures": {drop: runfile.SectionLocalStructures},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lines := dropSection(readFixture(t), tc.drop)

			rf, err := runfile.Parse(lines)
			if tc.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, rf)

				return
			}

			require.ErrorIs(t, err, tc.wantErr)

			var sectionErr *runfile.SectionError
			require.True(t, errors.As(err, &sectionErr))
			assert.Equal(t, tc.drop, sectionErr.Section)
		})
	}
}

func TestParseReportsRunfileLine(t *testing.T) {
	t.Parallel()

	lines := readFixture(t)
	for i, line := range lines {
		if line == "CAT3 300 200 310 210 CAT4" {
			lines[i] = "CAT3 300 200 310 210"
		}
	}

	_, err := runfile.Parse(lines)
	require.ErrorIs(t, err, runfile.ErrMalformedSection)

	var sectionErr *runfile.SectionError
	require.True(t, errors.As(err, &sectionErr))
	assert.Equal(t, runfile.SectionTopology, sectionErr.Section)
	assert.Equal(t, 20, sectionErr.Line)
	assert.Contains(t, err.Error(), "topology section, line 20")
}

func TestParseUnterminatedBlockWarns(t *testing.T) {
	t.Parallel()

	lines := readFixture(t)
	// cut the file right after the last flowpath group
	for i, line := range lines {
		if line == runfile.SectionFlowpaths.Marker().End {
			lines = lines[:i]

			break
		}
	}

	core, logs := observer.New(zap.WarnLevel)

	rf, err := runfile.Parse(lines, runfile.WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Len(t, rf.Flowpaths.Paths, 3)
	assert.Empty(t, rf.LocalStructures.Structures)
	assert.Equal(t, 1, logs.FilterMessage("unterminated block, reading to end of file").Len())
}

func readFixture(t *testing.T) []string {
	t.Helper()

	data, err := readAll(fixture)
	require.NoError(t, err)

	return data
}

func dropSection(lines []string, section runfile.Section) []string {
	marker := section.Marker()
	out := make([]string, 0, len(lines))
	inside := false

	for _, line := range lines {
		switch {
		case line == marker.Start:
			inside = true
		case line == marker.End:
			inside = false
		case !inside:
			out = append(out, line)
		}
	}

	return out
}
