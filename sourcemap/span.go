// Package sourcemap provides byte-offset spans into schema source text and
// the line index used to resolve those offsets to human-readable positions.
package sourcemap

// Span is a half-open byte range [Start, End) into a source buffer.
type Span struct {
	Start uint32
	End   uint32
}

// NewSpan builds a span from a start offset and length.
func NewSpan(start, length uint32) Span {
	return Span{Start: start, End: start + length}
}

// Len returns the number of bytes the span covers.
func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Slice extracts the span's bytes from src, clamping to the buffer bounds.
func (s Span) Slice(src []byte) []byte {
	start := s.Start
	end := s.End
	if start > uint32(len(src)) {
		start = uint32(len(src))
	}
	if end > uint32(len(src)) {
		end = uint32(len(src))
	}
	if end < start {
		end = start
	}
	return src[start:end]
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}
