package runfile

// Marker is the literal start and end banner of one block.
type Marker struct {
	Start string
	End   string
}

// Block holds the lines found between the banners of a Marker.
type Block struct {
	Lines []string
	// Offset is the index, in the scanned sequence, of the first line after the start banner.
	Offset     int
	Found      bool
	Terminated bool
}

// ScanBlock returns the lines strictly between the first line equal to m.Start and the
// next line equal to m.End. Lines before the start banner and after the end banner are
// dropped. Without an end banner the block runs to the end of lines and Terminated is
// false.
//
// Only one block per marker pair is open at a time: a start banner met inside an open
// block is kept as ordinary content, so blocks sharing a marker pair cannot nest.
func ScanBlock(lines []string, m Marker) Block {
	var block Block

	for i, line := range lines {
		if !block.Found {
			if line == m.Start {
				block.Found = true
				block.Offset = i + 1
			}

			continue
		}

		if line == m.End {
			block.Terminated = true

			break
		}

		block.Lines = append(block.Lines, line)
	}

	return block
}

// lineNo converts the index of a block line into a 1-based line number of the scanned sequence.
func (b Block) lineNo(i int) int {
	return b.Offset + i + 1
}
