package protocol

import (
	"math"
	"testing"
)

func TestEncodeDecodeUvarint(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		bytes int
	}{
		{"zero", 0, 1},
		{"max_1byte", 127, 1},
		{"min_2byte", 128, 2},
		{"max_2byte", 16383, 2},
		{"min_3byte", 16384, 3},
		{"max_uint32", math.MaxUint32, 5},
		{"max_uint64", math.MaxUint64, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, MaxVarintLen)
			n := EncodeUvarint(buf, tc.value)
			if n != tc.bytes {
				t.Errorf("EncodeUvarint(%d) = %d bytes, want %d", tc.value, n, tc.bytes)
			}
			if got := UvarintLen(tc.value); got != n {
				t.Errorf("UvarintLen(%d) = %d, want %d", tc.value, got, n)
			}

			decoded, read := DecodeUvarint(buf[:n])
			if read != n || decoded != tc.value {
				t.Errorf("DecodeUvarint = (%d, %d), want (%d, %d)", decoded, read, tc.value, n)
			}
		})
	}
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		signed   int64
		unsigned uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{math.MaxInt64, math.MaxUint64 - 1},
		{math.MinInt64, math.MaxUint64},
	}

	for _, tc := range tests {
		if got := zigzag(tc.signed); got != tc.unsigned {
			t.Errorf("zigzag(%d) = %d, want %d", tc.signed, got, tc.unsigned)
		}
		buf := make([]byte, MaxVarintLen)
		n := EncodeSvarint(buf, tc.signed)
		if got, read := DecodeSvarint(buf[:n]); got != tc.signed || read != n {
			t.Errorf("DecodeSvarint = (%d, %d), want (%d, %d)", got, read, tc.signed, n)
		}
	}
}

func TestDecodeUvarintErrors(t *testing.T) {
	if _, n := DecodeUvarint(nil); n != -1 {
		t.Errorf("DecodeUvarint(empty) = %d, want -1", n)
	}
	if _, n := DecodeUvarint([]byte{0x80, 0x80, 0x80}); n != -1 {
		t.Errorf("DecodeUvarint(incomplete) = %d, want -1", n)
	}

	overflow := make([]byte, 11)
	for i := range overflow {
		overflow[i] = 0x80
	}
	if _, n := DecodeUvarint(overflow); n != -2 {
		t.Errorf("DecodeUvarint(overflow) = %d, want -2", n)
	}
	if _, n := DecodeSvarint(overflow); n != -2 {
		t.Errorf("DecodeSvarint(overflow) = %d, want -2", n)
	}
}

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()
	e.WriteByte(0x42)
	e.WriteUvarint(12345)
	e.WriteSvarint(-9876)
	e.WriteInt(-1)
	e.WriteString("hello world")
	e.WriteStrings([]string{"a", "", "c"})
	e.WriteBool(true)
	e.WriteBool(false)

	d := NewDecoder(e.Bytes())

	if b, err := d.ReadByte(); err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v; want 0x42, nil", b, err)
	}
	if v, err := d.ReadUvarint(); err != nil || v != 12345 {
		t.Errorf("ReadUvarint() = %d, %v; want 12345, nil", v, err)
	}
	if v, err := d.ReadSvarint(); err != nil || v != -9876 {
		t.Errorf("ReadSvarint() = %d, %v; want -9876, nil", v, err)
	}
	if v, err := d.ReadInt(); err != nil || v != -1 {
		t.Errorf("ReadInt() = %d, %v; want -1, nil", v, err)
	}
	if s, err := d.ReadString(); err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v; want \"hello world\", nil", s, err)
	}
	ss, err := d.ReadStrings()
	if err != nil || len(ss) != 3 || ss[0] != "a" || ss[1] != "" || ss[2] != "c" {
		t.Errorf("ReadStrings() = %q, %v", ss, err)
	}
	if b, err := d.ReadBool(); err != nil || !b {
		t.Errorf("ReadBool() = %v, %v; want true, nil", b, err)
	}
	if b, err := d.ReadBool(); err != nil || b {
		t.Errorf("ReadBool() = %v, %v; want false, nil", b, err)
	}
	if !d.EOF() || d.Remaining() != 0 || d.Position() != e.Len() {
		t.Errorf("decoder not at end: pos=%d remaining=%d", d.Position(), d.Remaining())
	}
}

func TestDecoderRejects(t *testing.T) {
	if _, err := NewDecoder([]byte{0x02}).ReadBool(); err != ErrInvalidBool {
		t.Errorf("ReadBool(0x02) err = %v, want ErrInvalidBool", err)
	}

	e := NewEncoder()
	e.WriteSvarint(math.MaxInt64)
	if _, err := NewDecoder(e.Bytes()).ReadInt(); err != ErrIntOverflow {
		t.Errorf("ReadInt(MaxInt64) err = %v, want ErrIntOverflow", err)
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoderWithCap(4)
	e.WriteString("hello")
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", e.Len())
	}
	e.WriteByte(0x01)
	if got := e.Bytes(); len(got) != 1 || got[0] != 0x01 {
		t.Errorf("Bytes() = %x, want 01", got)
	}
}

func BenchmarkDecodeUvarint(b *testing.B) {
	buf := make([]byte, MaxVarintLen)
	EncodeUvarint(buf, 12345678)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DecodeUvarint(buf)
	}
}
