package results

import (
	"math"
	"sort"
	"strconv"
)

// BoxStats summarises the peaks of one storm duration across ensembles.
type BoxStats struct {
	Duration string
	Count    int
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Mean     float64
}

// DurationStats groups the peaks of variable for subarea under storms of the given AEP by
// duration and summarises each group. Groups follow the first-seen order of durations.
// Quartiles interpolate linearly between closest ranks.
func (p Peaks) DurationStats(subarea, aep string, variable Variable) []BoxStats {
	selected := p.Filter(PeakFilter{Subarea: subarea, AEP: aep, Variable: variable})

	values := make(map[string][]float64)
	for _, peak := range selected {
		values[peak.Storm.Duration] = append(values[peak.Storm.Duration], peak.Value)
	}

	durations := selected.Durations()
	res := make([]BoxStats, 0, len(durations))
	for _, d := range durations {
		res = append(res, boxStats(d, values[d]))
	}

	return res
}

func boxStats(duration string, values []float64) BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return BoxStats{
		Duration: duration,
		Count:    len(sorted),
		Min:      sorted[0],
		Q1:       quantile(sorted, 0.25),
		Median:   quantile(sorted, 0.5),
		Q3:       quantile(sorted, 0.75),
		Max:      sorted[len(sorted)-1],
		Mean:     sum / float64(len(sorted)),
	}
}

// quantile expects sorted to be non-empty and ascending.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))

	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// Ensembles returns the hydrographs of subarea under every ensemble of the storm with the
// given AEP and duration. Numeric ensemble names sort numerically, before any others.
func (hs Hydrographs) Ensembles(subarea, aep, duration string) []*Hydrograph {
	var res []*Hydrograph
	for _, key := range hs.storms[subarea] {
		h := hs.bySubarea[subarea][key]
		if h.Storm.AEP == aep && h.Storm.Duration == duration {
			res = append(res, h)
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		return ensembleLess(res[i].Storm.Ensemble, res[j].Storm.Ensemble)
	})

	return res
}

func ensembleLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)

	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
