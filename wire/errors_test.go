package wire

import "testing"

func TestErrorCarriesA4000sCode(t *testing.T) {
	err, ok := errInitialByte("0x1A", "0x19").(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if err.Code() != 4001 {
		t.Fatalf("got code %d, want 4001", err.Code())
	}
	if err.Error() != `E4001: unexpected initial byte (expected 0x1A, found 0x19)` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestFixedLengthMismatchReadError(t *testing.T) {
	r := NewReader([]byte{0x82})
	err := r.ReadFixedArrayHeader(3)
	if err == nil {
		t.Fatal("expected an error")
	}
	wireErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if wireErr.Code() != 4002 {
		t.Fatalf("got code %d, want 4002", wireErr.Code())
	}
}
