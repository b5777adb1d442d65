package runfile

import "fmt"

// Section identifies one top-level block of a runfile.
type Section int

const (
	SectionPreamble Section = iota
	SectionStatus
	SectionDisplay
	SectionTopology
	SectionSurfaces
	SectionFlowpaths
	SectionLocalStructures
)

// sections lists every section in file order. Parse decodes them in this order.
var sections = []Section{
	SectionPreamble,
	SectionStatus,
	SectionDisplay,
	SectionTopology,
	SectionSurfaces,
	SectionFlowpaths,
	SectionLocalStructures,
}

//nolint:lll // banners are fixed-width literals
var sectionMarkers = map[Section]Marker{
	SectionPreamble: {
		Start: "#####START_PREAMBLE_BLOCK##########|###########|###########|###########|",
		End:   "#####END_PREAMBLE_BLOCK############|###########|###########|###########|",
	},
	SectionStatus: {
		Start: "#####START_STATUS_BLOCK############|###########|###########|###########|",
		End:   "#####END_STATUS_BLOCK##############|###########|###########|###########|",
	},
	SectionDisplay: {
		Start: "#####START_DISPLAY_BLOCK###########|###########|###########|###########|",
		End:   "#####END_DISPLAY_BLOCK#############|###########|###########|###########|",
	},
	SectionTopology: {
		Start: "#####START_TOPOLOGY_BLOCK##########|###########|###########|###########|",
		End:   "#####END_TOPOLOGY_BLOCK############|###########|###########|###########|",
	},
	SectionSurfaces: {
		Start: "#####START_SURFACES_BLOCK##########|###########|###########|###########|",
		End:   "#####END_SURFACES_BLOCK############|###########|###########|###########|",
	},
	SectionFlowpaths: {
		Start: "#####START_FLOWPATHS_BLOCK#########|###########|###########|###########|",
		End:   "#####END_FLOWPATHS_BLOCK###########|###########|###########|###########|",
	},
	SectionLocalStructures: {
		Start: "#####START_LOCAL_STRUCTURES_BLOCK##|###########|###########|###########|",
		End:   "#####END_LOCAL_STRUCTURES_BLOCK####|###########|###########|###########|",
	},
}

var sectionNames = map[Section]string{
	SectionPreamble:        "preamble",
	SectionStatus:          "status",
	SectionDisplay:         "display",
	SectionTopology:        "topology",
	SectionSurfaces:        "surfaces",
	SectionFlowpaths:       "flowpaths",
	SectionLocalStructures: "local structures",
}

func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}

	return fmt.Sprintf("section(%d)", int(s))
}

// Marker returns the banner pair delimiting the section.
func (s Section) Marker() Marker {
	return sectionMarkers[s]
}

// Required reports whether Parse fails when the section is absent.
func (s Section) Required() bool {
	switch s {
	case SectionStatus, SectionTopology, SectionSurfaces, SectionFlowpaths:
		return true
	default:
		return false
	}
}

// localStructureMarker returns the numbered banners of the i-th local structure.
func localStructureMarker(i int) Marker {
	return Marker{
		Start: fmt.Sprintf("#####START_LOCAL_STRUCTURE#%d", i),
		End:   fmt.Sprintf("#####END_LOCAL_STRUCTURE#%d", i),
	}
}
