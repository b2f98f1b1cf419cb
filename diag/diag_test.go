package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgllghr/cboragen/sourcemap"
)

func TestBagHasErrorsAndCount(t *testing.T) {
	b := &Bag{}
	b.Emit(SeverityWarning, sourcemap.Span{}, "a warning")
	if b.HasErrors() {
		t.Fatal("expected no errors yet")
	}
	b.Emit(SeverityError, sourcemap.Span{}, "an error")
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Fatalf("got HasErrors=%v ErrorCount=%d", b.HasErrors(), b.ErrorCount())
	}
}

func TestRenderPlainAndColorByteIdenticalLayout(t *testing.T) {
	src := []byte("foo = struct {\n\t0 x: u99\n}\n")
	b := &Bag{}
	b.Emit(SeverityError, sourcemap.Span{Start: 20, End: 23}, `unknown type "u99"`)

	var plain, colored bytes.Buffer
	Render(&plain, src, "test.cbora", b, false)
	Render(&colored, src, "test.cbora", b, true)

	stripped := stripANSI(colored.String())
	if stripped != plain.String() {
		t.Fatalf("layouts differ once ANSI is stripped:\nplain: %q\ncolored (stripped): %q", plain.String(), stripped)
	}
}

func TestRenderIncludesNote(t *testing.T) {
	b := &Bag{}
	b.EmitWithNote(SeverityError, sourcemap.Span{Start: 0, End: 1}, "bad thing", sourcemap.Span{}, false, "try this instead")
	var out bytes.Buffer
	Render(&out, []byte("x\n"), "f.cbora", b, false)
	if !strings.Contains(out.String(), "= help: try this instead") {
		t.Fatalf("missing help note in output: %q", out.String())
	}
}

func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
