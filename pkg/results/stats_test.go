package results_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-wbnm/pkg/results"
)

func TestDurationStats(t *testing.T) {
	t.Parallel()

	res, err := results.ParseFile(fixture)
	require.NoError(t, err)

	got := res.Peaks.DurationStats("CAT1", "1%", results.VarOut)
	assert.Equal(t, []results.BoxStats{
		{Duration: "60", Count: 2, Min: 7.5, Q1: 8, Median: 8.5, Q3: 9, Max: 9.5, Mean: 8.5},
		{Duration: "120", Count: 1, Min: 4, Q1: 4, Median: 4, Q3: 4, Max: 4, Mean: 4},
	}, got)

	assert.Empty(t, res.Peaks.DurationStats("CAT9", "1%", results.VarOut))
}

func TestDurationStatsQuartiles(t *testing.T) {
	t.Parallel()

	lines := []string{}
	for i, value := range []string{"7", "1", "3", "5", "9"} {
		lines = append(lines,
			peakHeader("S"+value+"-1%-30-"+string(rune('1'+i))+"(ensemble)"),
			"  CAT1 0 0 0 0 0 0 0 "+value,
			peakFooter,
		)
	}

	res, err := parseLines(lines)
	require.NoError(t, err)

	got := res.Peaks.DurationStats("CAT1", "1%", results.VarOut)
	require.Len(t, got, 1)
	assert.Equal(t, results.BoxStats{
		Duration: "30", Count: 5, Min: 1, Q1: 3, Median: 5, Q3: 7, Max: 9, Mean: 5,
	}, got[0])
}

func TestEnsembles(t *testing.T) {
	t.Parallel()

	var lines []string
	for _, ens := range []string{"10", "2", "1", "x"} {
		lines = append(lines,
			hydrographHeader("CAT1", "S1-1%-60-"+ens+"(ensemble)"),
			hydrographRow(0),
			hydrographFooter("CAT1"),
		)
	}
	lines = append(lines,
		hydrographHeader("CAT1", "S1-1%-120-1(ensemble)"),
		hydrographRow(0),
		hydrographFooter("CAT1"),
	)

	res, err := parseLines(lines)
	require.NoError(t, err)

	var got []string
	for _, h := range res.Hydrographs.Ensembles("CAT1", "1%", "60") {
		got = append(got, h.Storm.Ensemble)
	}

	assert.Equal(t, []string{"1", "2", "10", "x"}, got)
	assert.Len(t, res.Hydrographs.Ensembles("CAT1", "1%", "120"), 1)
	assert.Empty(t, res.Hydrographs.Ensembles("CAT2", "1%", "60"))
}
