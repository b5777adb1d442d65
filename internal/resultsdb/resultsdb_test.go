package resultsdb_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-wbnm/internal/resultsdb"
	"github.com/askiada/go-wbnm/pkg/batch"
	"github.com/askiada/go-wbnm/pkg/results"
)

const fixture = "../../pkg/results/testdata/murarrie_Meta.out"

func openStore(t *testing.T) (*resultsdb.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "results.db")

	store, err := resultsdb.Open(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, path
}

func TestImport(t *testing.T) {
	t.Parallel()

	store, _ := openStore(t)

	res, err := results.ParseFile(fixture)
	require.NoError(t, err)

	before := time.Now()
	runID, err := store.Import(t.Context(), fixture, res)
	require.NoError(t, err)

	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	runs, err := store.Runs(t.Context())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, fixture, runs[0].Source)
	assert.WithinDuration(t, before, runs[0].ImportedAt, time.Minute)

	samples := 0
	for _, subarea := range res.Hydrographs.Subareas() {
		for _, storm := range res.Hydrographs.Storms(subarea) {
			h, _ := res.Hydrographs.Get(subarea, storm)
			samples += h.Len() * len(results.Channels())
		}
	}

	peakCount, sampleCount, err := store.Counts(t.Context(), runID)
	require.NoError(t, err)
	assert.Equal(t, len(res.Peaks), peakCount)
	assert.Equal(t, samples, sampleCount)
	assert.Equal(t, 70, sampleCount)

	peaks, err := store.Peaks(t.Context(), runID)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(res.Peaks, peaks))

	series, err := store.Series(t.Context(), runID, "CAT1", "1%-60-1", results.ChannelQTop)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1.5}, series)

	series, err = store.Series(t.Context(), runID, "CAT1", "1%-120-1", results.ChannelQTop)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestImportSeparatesRuns(t *testing.T) {
	t.Parallel()

	store, path := openStore(t)

	res, err := results.ParseFile(fixture)
	require.NoError(t, err)

	first, err := store.Import(t.Context(), "first", res)
	require.NoError(t, err)

	second, err := store.Import(t.Context(), "second", &results.Results{})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	peaks, samples, err := store.Counts(t.Context(), second)
	require.NoError(t, err)
	assert.Zero(t, peaks)
	assert.Zero(t, samples)

	require.NoError(t, store.Close())

	reopened, err := resultsdb.Open(t.Context(), path)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Runs(t.Context())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "first", runs[0].Source)
	assert.Equal(t, "second", runs[1].Source)
}

func TestStoreAsBatchSink(t *testing.T) {
	t.Parallel()

	store, _ := openStore(t)

	content, err := os.ReadFile(fixture)
	require.NoError(t, err)

	dir := t.TempDir()
	paths := make([]string, 4)
	for i := range paths {
		paths[i] = filepath.Join(dir, "run"+strconv.Itoa(i)+"_Meta.out")
		require.NoError(t, os.WriteFile(paths[i], content, 0o600))
	}

	require.NoError(t, batch.New(batch.WithWorkers(2)).Run(t.Context(), paths, store))

	runs, err := store.Runs(t.Context())
	require.NoError(t, err)
	require.Len(t, runs, len(paths))

	for _, run := range runs {
		peaks, samples, err := store.Counts(t.Context(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, 48, peaks)
		assert.Equal(t, 70, samples)
	}
}

func TestOpenInvalidPath(t *testing.T) {
	t.Parallel()

	_, err := resultsdb.Open(t.Context(), filepath.Join(t.TempDir(), "missing", "results.db"))
	require.Error(t, err)
}
