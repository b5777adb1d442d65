package results_test

import (
	"fmt"
	"strings"

	"github.com/askiada/go-wbnm/pkg/results"
)

const fixture = "testdata/murarrie_Meta.out"

func parseLines(lines []string, opts ...results.Option) (*results.Results, error) {
	return results.ParseReader(strings.NewReader(strings.Join(lines, "\n")), opts...)
}

func peakHeader(storm string) string {
	return "#####START_PEAK_SUMMARY############::" + storm
}

const peakFooter = "#####END_PEAK_SUMMARY##############"

func peakRow(subarea string, base float64) string {
	cols := make([]string, 0, 9)
	cols = append(cols, "  "+subarea)
	for i := range 8 {
		cols = append(cols, fmt.Sprintf("%.1f", base+float64(i)))
	}

	return strings.Join(cols, "    ")
}

func hydrographHeader(subarea, storm string) string {
	return "#####START_HYDROGRAPHS_" + subarea + "  ::" + storm
}

func hydrographFooter(subarea string) string {
	return "#####END_HYDROGRAPHS_" + subarea
}

// hydrographRow returns a row whose channel c holds 100*c + i.
func hydrographRow(i int) string {
	cols := make([]string, 10)
	for c := range cols {
		cols[c] = fmt.Sprintf("%.2f", float64(100*c+i))
	}

	return "   " + strings.Join(cols, "   ")
}
