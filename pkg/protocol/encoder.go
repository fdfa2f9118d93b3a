package protocol

// Encoder appends varint-framed values to a growing buffer.
type Encoder struct {
	buf     []byte
	scratch [MaxVarintLen]byte
}

// NewEncoder creates an encoder with a small initial capacity.
func NewEncoder() *Encoder {
	return NewEncoderWithCap(256)
}

// NewEncoderWithCap creates an encoder whose buffer starts with capacity n.
func NewEncoderWithCap(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Reset empties the encoder and keeps the underlying buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the encoded bytes. The slice is only valid until the next
// write or Reset.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteByte appends one byte. It never fails, so unlike io.ByteWriter it
// returns nothing.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

// WriteUvarint appends an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) {
	n := EncodeUvarint(e.scratch[:], v)
	e.buf = append(e.buf, e.scratch[:n]...)
}

// WriteSvarint appends a ZigZag-encoded signed varint.
func (e *Encoder) WriteSvarint(v int64) {
	n := EncodeSvarint(e.scratch[:], v)
	e.buf = append(e.buf, e.scratch[:n]...)
}

// WriteInt appends an int as a signed varint.
func (e *Encoder) WriteInt(v int) {
	e.WriteSvarint(int64(v))
}

// WriteString appends a length-prefixed string.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteStrings appends a count followed by each string.
func (e *Encoder) WriteStrings(ss []string) {
	e.WriteUvarint(uint64(len(ss)))
	for _, s := range ss {
		e.WriteString(s)
	}
}

// WriteBool appends 0x01 for true and 0x00 for false.
func (e *Encoder) WriteBool(b bool) {
	if b {
		e.buf = append(e.buf, 0x01)
	} else {
		e.buf = append(e.buf, 0x00)
	}
}
