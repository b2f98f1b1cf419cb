package sourcemap

import "testing"

func TestSpanSliceClamps(t *testing.T) {
	src := []byte("hello")
	s := NewSpan(3, 10)
	got := s.Slice(src)
	if string(got) != "lo" {
		t.Fatalf("got %q, want %q", got, "lo")
	}
}

func TestSpanMerge(t *testing.T) {
	a := Span{Start: 2, End: 5}
	b := Span{Start: 1, End: 3}
	m := a.Merge(b)
	if m.Start != 1 || m.End != 5 {
		t.Fatalf("got %+v", m)
	}
}

func TestLineIndexResolve(t *testing.T) {
	src := []byte("abc\ndef\nghi")
	li := NewLineIndex(src)

	line, col := li.Resolve(0)
	if line != 1 || col != 1 {
		t.Fatalf("offset 0: got line=%d col=%d", line, col)
	}

	line, col = li.Resolve(4) // 'd'
	if line != 2 || col != 1 {
		t.Fatalf("offset 4: got line=%d col=%d", line, col)
	}

	line, col = li.Resolve(100) // beyond source: clamp to last line
	if line != 3 {
		t.Fatalf("offset beyond source: got line=%d", line)
	}
}

func TestLineIndexEmptySourceIsOneLine(t *testing.T) {
	li := NewLineIndex([]byte(""))
	if li.LineCount() != 1 {
		t.Fatalf("got %d lines, want 1", li.LineCount())
	}
	text, line := li.LineText(0, []byte(""))
	if text != "" || line != 1 {
		t.Fatalf("got text=%q line=%d", text, line)
	}
}

func TestLineTextStripsTrailingCR(t *testing.T) {
	src := []byte("abc\r\ndef")
	li := NewLineIndex(src)
	text, _ := li.LineText(0, src)
	if text != "abc" {
		t.Fatalf("got %q, want %q", text, "abc")
	}
}
