package results

// Storm identifies one simulated rainfall event.
type Storm struct {
	ID       string
	AEP      string
	Duration string
	Ensemble string
	Type     string
}

// Key is the storm key of the hydrograph collection: AEP, duration and ensemble joined by
// dashes. A header ending in "-12-50-60(det)" has key "12-50-60". Parse rejects two
// storms of one subarea that share a key but differ in ID or type.
func (s Storm) Key() string {
	return s.AEP + "-" + s.Duration + "-" + s.Ensemble
}

// String returns the storm descriptor as written in block headers.
func (s Storm) String() string {
	return s.ID + "-" + s.Key() + "(" + s.Type + ")"
}

// Variable is a quantity reported by a peak summary row.
type Variable string

const (
	VarOutStructure Variable = "out_str"
	VarTop          Variable = "top"
	VarBottom       Variable = "bottom"
	VarPervious     Variable = "perv"
	VarImpervious   Variable = "imp"
	VarDirect       Variable = "dir"
	VarIn           Variable = "in"
	VarOut          Variable = "out"
)

// PeakVariables lists the peak summary columns after the subarea, in column order.
var PeakVariables = [...]Variable{
	VarOutStructure, VarTop, VarBottom, VarPervious, VarImpervious, VarDirect, VarIn, VarOut,
}

// Peak is one peak value of one subarea under one storm.
type Peak struct {
	Storm    Storm
	Subarea  string
	Variable Variable
	Value    float64
}

// Peaks are peak records in file order.
type Peaks []Peak

// PeakFilter selects peaks. Empty fields match everything.
type PeakFilter struct {
	Subarea  string
	Variable Variable
	ID       string
	AEP      string
	Duration string
	Ensemble string
	Type     string
}

func (f PeakFilter) match(p Peak) bool {
	return matches(f.Subarea, p.Subarea) &&
		matches(string(f.Variable), string(p.Variable)) &&
		matches(f.ID, p.Storm.ID) &&
		matches(f.AEP, p.Storm.AEP) &&
		matches(f.Duration, p.Storm.Duration) &&
		matches(f.Ensemble, p.Storm.Ensemble) &&
		matches(f.Type, p.Storm.Type)
}

func matches(want, got string) bool {
	return want == "" || want == got
}

// Filter returns the peaks selected by f, in file order.
func (p Peaks) Filter(f PeakFilter) Peaks {
	var res Peaks
	for _, peak := range p {
		if f.match(peak) {
			res = append(res, peak)
		}
	}

	return res
}

// Subareas returns the distinct subareas in first-seen order.
func (p Peaks) Subareas() []string {
	return distinct(p, func(peak Peak) string { return peak.Subarea })
}

// AEPs returns the distinct AEPs in first-seen order.
func (p Peaks) AEPs() []string {
	return distinct(p, func(peak Peak) string { return peak.Storm.AEP })
}

// Durations returns the distinct storm durations in first-seen order.
func (p Peaks) Durations() []string {
	return distinct(p, func(peak Peak) string { return peak.Storm.Duration })
}

func distinct(p Peaks, key func(Peak) string) []string {
	seen := make(map[string]struct{})

	var res []string
	for _, peak := range p {
		k := key(peak)
		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		res = append(res, k)
	}

	return res
}

// Channel is a hydrograph column.
type Channel int

const (
	ChannelTime Channel = iota
	ChannelRain
	ChannelRainPervious
	ChannelQTop
	ChannelQBottom
	ChannelQPervious
	ChannelQImpervious
	ChannelQIntoStructure
	ChannelQOutStructure
	ChannelStage

	channelCount = int(ChannelStage) + 1
)

var channelNames = [channelCount]string{
	"Time", "Rain", "Rainperv", "Qtop", "Qbot", "Qper", "Qimp", "Qinto_OS", "Qout_OS", "Stage",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= channelCount {
		return "unknown"
	}

	return channelNames[c]
}

// Channels returns every channel in column order.
func Channels() []Channel {
	res := make([]Channel, channelCount)
	for i := range res {
		res[i] = Channel(i)
	}

	return res
}

// ParseChannel returns the channel with the given column name.
func ParseChannel(name string) (Channel, bool) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), true
		}
	}

	return 0, false
}

// Hydrograph is the time series of one subarea under one storm. All channels have the
// same number of samples and sample i of every channel comes from the same row.
type Hydrograph struct {
	Subarea string
	Storm   Storm
	series  [channelCount][]float64
}

// Series returns the samples of channel c. The slice must not be modified.
func (h *Hydrograph) Series(c Channel) []float64 {
	if c < 0 || int(c) >= channelCount {
		return nil
	}

	return h.series[c]
}

// Len returns the number of samples per channel.
func (h *Hydrograph) Len() int {
	return len(h.series[ChannelTime])
}

// Peak returns the largest sample of channel c and the time it occurs at.
func (h *Hydrograph) Peak(c Channel) (value, time float64, ok bool) {
	series := h.Series(c)
	if len(series) == 0 {
		return 0, 0, false
	}

	at := 0
	for i, v := range series {
		if v > series[at] {
			at = i
		}
	}

	return series[at], h.series[ChannelTime][at], true
}

// Hydrographs indexes hydrographs by subarea then storm key.
type Hydrographs struct {
	bySubarea map[string]map[string]*Hydrograph
	subareas  []string
	storms    map[string][]string
	count     int
}

func newHydrographs() Hydrographs {
	return Hydrographs{
		bySubarea: make(map[string]map[string]*Hydrograph),
		storms:    make(map[string][]string),
	}
}

// put stores h and reports whether it replaced an earlier hydrograph.
func (hs *Hydrographs) put(h *Hydrograph) bool {
	key := h.Storm.Key()

	storms, ok := hs.bySubarea[h.Subarea]
	if !ok {
		storms = make(map[string]*Hydrograph)
		hs.bySubarea[h.Subarea] = storms
		hs.subareas = append(hs.subareas, h.Subarea)
	}

	_, replaced := storms[key]
	if !replaced {
		hs.storms[h.Subarea] = append(hs.storms[h.Subarea], key)
		hs.count++
	}

	storms[key] = h

	return replaced
}

// Get returns the hydrograph of subarea under the storm with the given key.
func (hs Hydrographs) Get(subarea, storm string) (*Hydrograph, bool) {
	h, ok := hs.bySubarea[subarea][storm]

	return h, ok
}

// Subareas returns the subareas with at least one hydrograph, in first-seen order.
func (hs Hydrographs) Subareas() []string {
	return append([]string(nil), hs.subareas...)
}

// Storms returns the storm keys of subarea in first-seen order.
func (hs Hydrographs) Storms(subarea string) []string {
	return append([]string(nil), hs.storms[subarea]...)
}

// Len returns the number of distinct hydrographs.
func (hs Hydrographs) Len() int {
	return hs.count
}

// Results holds everything read from one meta file.
type Results struct {
	Peaks       Peaks
	Hydrographs Hydrographs
}
