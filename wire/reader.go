package wire

import "math"

// Reader decodes CBOR bytes produced by Writer. Every Read method
// validates the initial byte against the single expected form for its
// schema type rather than dispatching on major type generically — the
// "single branch per field" discipline the contract requires of
// generated decoders.
type Reader struct {
	buf    []byte
	offset int
}

// NewReader wraps buf for sequential decoding starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset reports how many bytes have been consumed so far.
func (r *Reader) Offset() int { return r.offset }

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int { return len(r.buf) - r.offset }

func (r *Reader) readByte() (byte, error) {
	if r.offset >= len(r.buf) {
		return 0, errUnexpectedEOF()
	}
	b := r.buf[r.offset]
	r.offset++
	return b, nil
}

func (r *Reader) peekByte() (byte, error) {
	if r.offset >= len(r.buf) {
		return 0, errUnexpectedEOF()
	}
	return r.buf[r.offset], nil
}

func (r *Reader) readN(n int) ([]byte, error) {
	if r.offset+n > len(r.buf) {
		return nil, errUnexpectedEOF()
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// readArgument decodes the argument of an initial byte whose additional
// info field is ai: the value itself for ai<24, or the following 1/2/4/8
// big-endian bytes for ai 24/25/26/27. Any other ai is malformed for the
// scalar contexts that call this.
func (r *Reader) readArgument(ai byte) (uint64, error) {
	switch {
	case ai < 24:
		return uint64(ai), nil
	case ai == 24:
		b, err := r.readN(1)
		if err != nil {
			return 0, err
		}
		return uint64(b[0]), nil
	case ai == 25:
		b, err := r.readN(2)
		if err != nil {
			return 0, err
		}
		return uint64(b[0])<<8 | uint64(b[1]), nil
	case ai == 26:
		b, err := r.readN(4)
		if err != nil {
			return 0, err
		}
		return uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3]), nil
	case ai == 27:
		b, err := r.readN(8)
		if err != nil {
			return 0, err
		}
		var n uint64
		for _, x := range b {
			n = n<<8 | uint64(x)
		}
		return n, nil
	default:
		return 0, errMalformedAdditionalInfo(ai)
	}
}

// ReadBool validates the initial byte is exactly 0xF4 or 0xF5.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0xF4:
		return false, nil
	case 0xF5:
		return true, nil
	default:
		return false, errInitialByte("0xF4 or 0xF5", byteDesc(b))
	}
}

func (r *Reader) readFixedUint(expectedInitial byte, width int) (uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if b != expectedInitial {
		return 0, errInitialByte(byteDesc(expectedInitial), byteDesc(b))
	}
	bytes, err := r.readN(width)
	if err != nil {
		return 0, err
	}
	var n uint64
	for _, x := range bytes {
		n = n<<8 | uint64(x)
	}
	return n, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	n, err := r.readFixedUint(0x18, 1)
	return uint8(n), err
}
func (r *Reader) ReadU16() (uint16, error) {
	n, err := r.readFixedUint(0x19, 2)
	return uint16(n), err
}
func (r *Reader) ReadU32() (uint32, error) {
	n, err := r.readFixedUint(0x1A, 4)
	return uint32(n), err
}
func (r *Reader) ReadU64() (uint64, error) {
	return r.readFixedUint(0x1B, 8)
}

func (r *Reader) readFixedInt(unsignedInitial, signedInitial byte, width int) (int64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case unsignedInitial:
		bytes, err := r.readN(width)
		if err != nil {
			return 0, err
		}
		var n uint64
		for _, x := range bytes {
			n = n<<8 | uint64(x)
		}
		return int64(n), nil
	case signedInitial:
		bytes, err := r.readN(width)
		if err != nil {
			return 0, err
		}
		var n uint64
		for _, x := range bytes {
			n = n<<8 | uint64(x)
		}
		return -1 - int64(n), nil
	default:
		return 0, errInitialByte(byteDesc(unsignedInitial)+" or "+byteDesc(signedInitial), byteDesc(b))
	}
}

func (r *Reader) ReadI8() (int8, error) {
	n, err := r.readFixedInt(0x18, 0x38, 1)
	return int8(n), err
}
func (r *Reader) ReadI16() (int16, error) {
	n, err := r.readFixedInt(0x19, 0x39, 2)
	return int16(n), err
}
func (r *Reader) ReadI32() (int32, error) {
	n, err := r.readFixedInt(0x1A, 0x3A, 4)
	return int32(n), err
}
func (r *Reader) ReadI64() (int64, error) {
	return r.readFixedInt(0x1B, 0x3B, 8)
}

// ReadUvarint decodes a minimally-encoded unsigned varint (major 0).
func (r *Reader) ReadUvarint() (uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	major := b >> 5
	ai := b & 0x1F
	if major != 0 {
		return 0, errInitialByte("major 0", byteDesc(b))
	}
	return r.readArgument(ai)
}

// ReadIvarint decodes a minimally-encoded signed varint (major 0 or 1).
func (r *Reader) ReadIvarint() (int64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	major := b >> 5
	ai := b & 0x1F
	n, err := r.readArgument(ai)
	if err != nil {
		return 0, err
	}
	switch major {
	case 0:
		return int64(n), nil
	case 1:
		return -1 - int64(n), nil
	default:
		return 0, errInitialByte("major 0 or 1", byteDesc(b))
	}
}

// ReadF16Bits decodes a raw binary16 bit pattern.
func (r *Reader) ReadF16Bits() (uint16, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if b != 0xF9 {
		return 0, errInitialByte("0xF9", byteDesc(b))
	}
	bytes, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return uint16(bytes[0])<<8 | uint16(bytes[1]), nil
}

// ReadF16 decodes a binary16 value and widens it to float32.
func (r *Reader) ReadF16() (float32, error) {
	bits, err := r.ReadF16Bits()
	if err != nil {
		return 0, err
	}
	return Float16BitsToF32(bits), nil
}

func (r *Reader) ReadF32() (float32, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFA {
		return 0, errInitialByte("0xFA", byteDesc(b))
	}
	bytes, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(bytes[0])<<24 | uint32(bytes[1])<<16 | uint32(bytes[2])<<8 | uint32(bytes[3])
	return math.Float32frombits(bits), nil
}

func (r *Reader) ReadF64() (float64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFB {
		return 0, errInitialByte("0xFB", byteDesc(b))
	}
	bytes, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	var bits uint64
	for _, x := range bytes {
		bits = bits<<8 | uint64(x)
	}
	return math.Float64frombits(bits), nil
}

// ReadString decodes a UTF-8 text string (major 3).
func (r *Reader) ReadString() (string, error) {
	b, err := r.readByte()
	if err != nil {
		return "", err
	}
	major := b >> 5
	ai := b & 0x1F
	if major != 3 {
		return "", errInitialByte("major 3", byteDesc(b))
	}
	n, err := r.readArgument(ai)
	if err != nil {
		return "", err
	}
	data, err := r.readN(int(n))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBytes decodes a byte string (major 2), used both for the `bytes`
// scalar and for `[]u8` arrays.
func (r *Reader) ReadBytes() ([]byte, error) {
	b, err := r.readByte()
	if err != nil {
		return nil, err
	}
	major := b >> 5
	ai := b & 0x1F
	if major != 2 {
		return nil, errInitialByte("major 2", byteDesc(b))
	}
	n, err := r.readArgument(ai)
	if err != nil {
		return nil, err
	}
	data, err := r.readN(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ReadArrayHeader decodes a definite-length array header (major 4) and
// returns its declared length.
func (r *Reader) ReadArrayHeader() (uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	major := b >> 5
	ai := b & 0x1F
	if major != 4 || ai == 31 {
		return 0, errInitialByte("definite-length major 4", byteDesc(b))
	}
	return r.readArgument(ai)
}

// ReadFixedArrayHeader decodes a definite-length array header and
// verifies it equals exactly want.
func (r *Reader) ReadFixedArrayHeader(want uint64) error {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if n != want {
		return errLengthMismatch(want, n)
	}
	return nil
}

// ReadIndefiniteArrayHeader consumes the 0x9F marker used by
// external-length arrays.
func (r *Reader) ReadIndefiniteArrayHeader() error {
	b, err := r.readByte()
	if err != nil {
		return err
	}
	if b != 0x9F {
		return errInitialByte("0x9F", byteDesc(b))
	}
	return nil
}

// ReadBreak consumes the CBOR break symbol, failing if the next byte is
// anything else.
func (r *Reader) ReadBreak() error {
	b, err := r.readByte()
	if err != nil {
		return err
	}
	if b != 0xFF {
		return errMissingBreak(b)
	}
	return nil
}

// PeekIsBreak reports whether the next byte is the break symbol, without
// consuming it. Used by Skip to find the end of indefinite-length items.
func (r *Reader) PeekIsBreak() (bool, error) {
	b, err := r.peekByte()
	if err != nil {
		return false, err
	}
	return b == 0xFF, nil
}

// ReadNull validates that the next byte is the CBOR null simple value.
func (r *Reader) ReadNull() error {
	b, err := r.readByte()
	if err != nil {
		return err
	}
	if b != 0xF6 {
		return errInitialByte("0xF6", byteDesc(b))
	}
	return nil
}

// PeekIsNull reports whether the next byte is CBOR null, without
// consuming it.
func (r *Reader) PeekIsNull() (bool, error) {
	b, err := r.peekByte()
	if err != nil {
		return false, err
	}
	return b == 0xF6, nil
}

// PeekMajor returns the major type of the next item without consuming
// it, used by union decoding to dispatch between tag-carrying and unit
// variants.
func (r *Reader) PeekMajor() (byte, error) {
	b, err := r.peekByte()
	if err != nil {
		return 0, err
	}
	return b >> 5, nil
}

// ReadTagHeader decodes a major-6 tag header and returns its tag number;
// the caller is responsible for then decoding the tagged item.
func (r *Reader) ReadTagHeader() (uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	major := b >> 5
	ai := b & 0x1F
	if major != 6 {
		return 0, errInitialByte("major 6", byteDesc(b))
	}
	return r.readArgument(ai)
}

// Skip advances past exactly one CBOR item of any form, recursing into
// arrays, maps, and tags, and consuming until the break symbol for
// indefinite-length items. It is used for struct forward-compatibility
// (unknown or gapped ranks) and unknown union-variant payloads.
func (r *Reader) Skip() error {
	b, err := r.readByte()
	if err != nil {
		return err
	}
	major := b >> 5
	ai := b & 0x1F

	switch major {
	case 0, 1:
		_, err := r.readArgument(ai)
		return err
	case 2, 3:
		if ai == 31 {
			return r.skipIndefiniteChunks()
		}
		n, err := r.readArgument(ai)
		if err != nil {
			return err
		}
		_, err = r.readN(int(n))
		return err
	case 4:
		if ai == 31 {
			return r.skipUntilBreak()
		}
		n, err := r.readArgument(ai)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n; i++ {
			if err := r.Skip(); err != nil {
				return err
			}
		}
		return nil
	case 5:
		if ai == 31 {
			return r.skipUntilBreak()
		}
		n, err := r.readArgument(ai)
		if err != nil {
			return err
		}
		for i := uint64(0); i < n*2; i++ {
			if err := r.Skip(); err != nil {
				return err
			}
		}
		return nil
	case 6:
		_, err := r.readArgument(ai)
		if err != nil {
			return err
		}
		return r.Skip()
	case 7:
		switch ai {
		case 20, 21, 22, 23: // false, true, null, undefined
			return nil
		case 24:
			_, err := r.readN(1)
			return err
		case 25:
			_, err := r.readN(2)
			return err
		case 26:
			_, err := r.readN(4)
			return err
		case 27:
			_, err := r.readN(8)
			return err
		case 31:
			return errMissingBreak(b)
		default:
			if ai < 20 {
				return nil
			}
			return errMalformedAdditionalInfo(ai)
		}
	default:
		return errMalformedAdditionalInfo(ai)
	}
}

func (r *Reader) skipUntilBreak() error {
	for {
		isBreak, err := r.PeekIsBreak()
		if err != nil {
			return err
		}
		if isBreak {
			r.offset++
			return nil
		}
		if err := r.Skip(); err != nil {
			return err
		}
	}
}

// skipIndefiniteChunks skips an indefinite-length string/bytes item,
// which is a sequence of definite-length chunks terminated by a break.
func (r *Reader) skipIndefiniteChunks() error {
	for {
		isBreak, err := r.PeekIsBreak()
		if err != nil {
			return err
		}
		if isBreak {
			r.offset++
			return nil
		}
		b, err := r.readByte()
		if err != nil {
			return err
		}
		ai := b & 0x1F
		n, err := r.readArgument(ai)
		if err != nil {
			return err
		}
		if _, err := r.readN(int(n)); err != nil {
			return err
		}
	}
}
