package runfile

import "strings"

// Status is the identification block written by the WBNM editor.
type Status struct {
	Pathname string
	LastEdit string
	Name     string
	Version  string
}

const statusLines = 4

func decodeStatus(b Block) (Status, error) {
	if len(b.Lines) < statusLines {
		return Status{}, sectionErr(SectionStatus, 0,
			malformed("expected %d lines, found %d", statusLines, len(b.Lines)))
	}

	return Status{
		Pathname: strings.TrimSpace(b.Lines[0]),
		LastEdit: strings.TrimSpace(b.Lines[1]),
		Name:     strings.TrimSpace(b.Lines[2]),
		Version:  strings.TrimSpace(b.Lines[3]),
	}, nil
}

// Display holds the editor window and background map settings.
type Display struct {
	WindowCoords []float64
	// MapFile is kept verbatim.
	MapFile   string
	MapCoords []float64
}

const displayLines = 3

func decodeDisplay(b Block) (*Display, error) {
	if len(b.Lines) < displayLines {
		return nil, sectionErr(SectionDisplay, 0,
			malformed("expected %d lines, found %d", displayLines, len(b.Lines)))
	}

	window, err := parseFloats(strings.Fields(b.Lines[0]), "window coordinates")
	if err != nil {
		return nil, sectionErr(SectionDisplay, b.lineNo(0), err)
	}

	mapCoords, err := parseFloats(strings.Fields(b.Lines[2]), "map coordinates")
	if err != nil {
		return nil, sectionErr(SectionDisplay, b.lineNo(2), err)
	}

	return &Display{
		WindowCoords: window,
		MapFile:      b.Lines[1],
		MapCoords:    mapCoords,
	}, nil
}
