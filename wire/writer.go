// Package wire implements the CBOR profile that cboragen schemas compile
// down to: fixed-width scalars, minimally-encoded lengths and varints, and
// the struct/enum/union/array encodings in the wire contract.
package wire

import "math"

// Writer accumulates CBOR bytes into a growable buffer. It never returns
// errors: every value passed to it is already well-formed by construction
// (callers hold a schema-typed value), matching the "fail only on decode"
// discipline of the contract.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with no preallocated capacity.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer. The Writer must not be used again
// afterward if the caller retains the slice across further writes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *Writer) writeBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBool emits the one-byte simple values 0xF4/0xF5.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.writeByte(0xF5)
	} else {
		w.writeByte(0xF4)
	}
}

// writeMajLen writes an initial byte with the given major type and a
// minimally-encoded argument, used by string/bytes/array headers.
func (w *Writer) writeMajLen(major byte, n uint64) {
	w.writeUintForm(major, n)
}

// writeUintForm writes major<<5|ai with the argument encoded at exactly
// the width demanded by the AI: AI 24/25/26/27 for 1/2/4/8 explicit
// bytes, or the value itself inline for AI<24.
func (w *Writer) writeUintForm(major byte, n uint64) {
	switch {
	case n < 24:
		w.writeByte((major << 5) | byte(n))
	case n <= 0xFF:
		w.writeByte((major << 5) | 24)
		w.writeByte(byte(n))
	case n <= 0xFFFF:
		w.writeByte((major << 5) | 25)
		w.writeByte(byte(n >> 8))
		w.writeByte(byte(n))
	case n <= 0xFFFFFFFF:
		w.writeByte((major << 5) | 26)
		w.writeByte(byte(n >> 24))
		w.writeByte(byte(n >> 16))
		w.writeByte(byte(n >> 8))
		w.writeByte(byte(n))
	default:
		w.writeByte((major << 5) | 27)
		w.writeByte(byte(n >> 56))
		w.writeByte(byte(n >> 48))
		w.writeByte(byte(n >> 40))
		w.writeByte(byte(n >> 32))
		w.writeByte(byte(n >> 24))
		w.writeByte(byte(n >> 16))
		w.writeByte(byte(n >> 8))
		w.writeByte(byte(n))
	}
}

// writeFixedUint writes major 0 with AI fixed at the declared width,
// regardless of whether a smaller AI would fit — scalar widths never
// shrink on the wire.
func (w *Writer) writeFixedUint(major byte, ai byte, n uint64, width int) {
	w.writeByte((major << 5) | ai)
	for i := width - 1; i >= 0; i-- {
		w.writeByte(byte(n >> (8 * uint(i))))
	}
}

// WriteU8 through WriteU64 always use their declared AI (24/25/26/27).
func (w *Writer) WriteU8(v uint8)   { w.writeFixedUint(0, 24, uint64(v), 1) }
func (w *Writer) WriteU16(v uint16) { w.writeFixedUint(0, 25, uint64(v), 2) }
func (w *Writer) WriteU32(v uint32) { w.writeFixedUint(0, 26, uint64(v), 4) }
func (w *Writer) WriteU64(v uint64) { w.writeFixedUint(0, 27, v, 8) }

func (w *Writer) writeFixedInt(ai byte, v int64, width int) {
	if v >= 0 {
		w.writeFixedUint(0, ai, uint64(v), width)
		return
	}
	w.writeFixedUint(1, ai, uint64(-1-v), width)
}

func (w *Writer) WriteI8(v int8)   { w.writeFixedInt(24, int64(v), 1) }
func (w *Writer) WriteI16(v int16) { w.writeFixedInt(25, int64(v), 2) }
func (w *Writer) WriteI32(v int32) { w.writeFixedInt(26, int64(v), 4) }
func (w *Writer) WriteI64(v int64) { w.writeFixedInt(27, v, 8) }

// WriteUvarint writes v with the smallest AI that represents it.
func (w *Writer) WriteUvarint(v uint64) {
	w.writeUintForm(0, v)
}

// WriteIvarint writes v with the smallest AI over its zigzag-free CBOR
// sign encoding: major 0 for v>=0, major 1 over -1-v for v<0.
func (w *Writer) WriteIvarint(v int64) {
	if v >= 0 {
		w.writeUintForm(0, uint64(v))
		return
	}
	w.writeUintForm(1, uint64(-1-v))
}

// WriteF16Bits emits a raw binary16 bit pattern (AI 25).
func (w *Writer) WriteF16Bits(bits uint16) {
	w.writeByte((7 << 5) | 25)
	w.writeByte(byte(bits >> 8))
	w.writeByte(byte(bits))
}

// WriteF16 converts v to binary16 and emits it. Precision loss from the
// conversion is the caller's responsibility; the wire form never
// downcasts on its own (f32/f64 values are never narrowed implicitly).
func (w *Writer) WriteF16(v float32) {
	w.WriteF16Bits(Float32ToF16Bits(v))
}

func (w *Writer) WriteF32(v float32) {
	bits := math.Float32bits(v)
	w.writeByte((7 << 5) | 26)
	w.writeByte(byte(bits >> 24))
	w.writeByte(byte(bits >> 16))
	w.writeByte(byte(bits >> 8))
	w.writeByte(byte(bits))
}

func (w *Writer) WriteF64(v float64) {
	bits := math.Float64bits(v)
	w.writeByte((7 << 5) | 27)
	for i := 7; i >= 0; i-- {
		w.writeByte(byte(bits >> (8 * uint(i))))
	}
}

// WriteString emits a UTF-8 text string (major 3) with a minimally
// encoded length header.
func (w *Writer) WriteString(s string) {
	w.writeMajLen(3, uint64(len(s)))
	w.writeBytes([]byte(s))
}

// WriteBytes emits a byte string (major 2) with a minimally encoded
// length header. Used both for the `bytes` scalar and for `[]u8` arrays.
func (w *Writer) WriteBytes(b []byte) {
	w.writeMajLen(2, uint64(len(b)))
	w.writeBytes(b)
}

// WriteArrayHeader emits a definite-length array header (major 4) for n
// elements; the caller writes the n element encodings itself.
func (w *Writer) WriteArrayHeader(n uint64) {
	w.writeMajLen(4, n)
}

// WriteIndefiniteArrayHeader emits the indefinite-length array marker
// used by external-length arrays; the caller must follow with a
// matching WriteBreak after the element encodings.
func (w *Writer) WriteIndefiniteArrayHeader() {
	w.writeByte(0x9F)
}

// WriteBreak emits the CBOR break symbol (0xFF).
func (w *Writer) WriteBreak() {
	w.writeByte(0xFF)
}

// WriteNull emits the CBOR null simple value used for absent struct
// fields below the maximum written rank.
func (w *Writer) WriteNull() {
	w.writeByte(0xF6)
}

// WriteTagHeader emits a major-6 tag header for tagNum; the caller must
// follow it with the tagged item's own encoding.
func (w *Writer) WriteTagHeader(tagNum uint64) {
	w.writeMajLen(6, tagNum)
}
