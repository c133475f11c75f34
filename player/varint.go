// Package player implements the per-connection actor: protocol framing,
// the five-stage state machine, play-stage packet handling, chunk
// streaming, and player self-update.
package player

import (
	"io"

	"github.com/oriumgames/wyvern/actor"
)

// writeUVarInt writes a Minecraft-style unsigned LEB128 VarInt: 7 data bits
// per byte, high bit set while more bytes follow. This is distinct from
// Go's zigzag binary.PutVarint, which the teacher's own binary.go helper
// used for an unrelated on-disk format; the wire protocol's VarInt shape is
// specified directly by spec.md §6, so it is reimplemented here to match.
func writeUVarInt(w io.Writer, v int32) error {
	u := uint32(v)
	var buf [5]byte
	n := 0
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if u == 0 {
			break
		}
	}
	_, err := w.Write(buf[:n])
	return err
}

// readUVarInt reads a Minecraft-style VarInt, failing with BadRequest if
// it exceeds 5 bytes (the maximum for a 32-bit value).
func readUVarInt(r io.Reader) (int32, error) {
	var result uint32
	var shift uint
	one := make([]byte, 1)
	for i := 0; i < 5; i++ {
		if _, err := io.ReadFull(r, one); err != nil {
			return 0, err
		}
		b := one[0]
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return int32(result), nil
		}
		shift += 7
	}
	return 0, actor.NewError(actor.ErrBadRequest, "varint too long")
}

// uvarIntSize returns the encoded byte length of v, used to size
// length-prefix headers before writing.
func uvarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}
