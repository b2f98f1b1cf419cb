package sourcemap

import "sort"

// LineIndex maps byte offsets in a source buffer to 1-based line/column
// pairs. It holds the ascending offsets of each line's first byte, all
// recorded by NewLineIndex in a single pass over the source.
type LineIndex struct {
	// lineStarts[i] is the byte offset of the first byte of line i+1.
	// lineStarts[0] is always 0.
	lineStarts []uint32
	srcLen     uint32
}

// NewLineIndex scans src once and records the start offset of every line.
func NewLineIndex(src []byte) *LineIndex {
	starts := []uint32{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &LineIndex{lineStarts: starts, srcLen: uint32(len(src))}
}

// Resolve returns the 1-based (line, column) for a byte offset. Offsets
// beyond the source length clamp to the last line.
func (li *LineIndex) Resolve(offset uint32) (line, col int) {
	if offset > li.srcLen {
		offset = li.srcLen
	}
	// Binary search for the greatest line-start <= offset.
	i := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	})
	lineIdx := i - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	lineStart := li.lineStarts[lineIdx]
	return lineIdx + 1, int(offset-lineStart) + 1
}

// LineText returns the text of the line containing offset (trailing \r
// and \n stripped) along with its 1-based line number.
func (li *LineIndex) LineText(offset uint32, src []byte) (text string, lineNum int) {
	line, _ := li.Resolve(offset)
	start := li.lineStarts[line-1]
	var end uint32
	if line < len(li.lineStarts) {
		end = li.lineStarts[line] - 1 // drop the '\n'
	} else {
		end = li.srcLen
	}
	if start > uint32(len(src)) {
		start = uint32(len(src))
	}
	if end > uint32(len(src)) {
		end = uint32(len(src))
	}
	if end < start {
		end = start
	}
	lineBytes := src[start:end]
	if n := len(lineBytes); n > 0 && lineBytes[n-1] == '\r' {
		lineBytes = lineBytes[:n-1]
	}
	return string(lineBytes), line
}

// LineCount returns the number of lines the index covers. Empty source
// yields exactly one line.
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}
