package solana

import "github.com/pkg/errors"

// Solana serializes array lengths as "compact-u16": a little-endian
// base-128 varint capped at three bytes (max value 0xffff).

func appendShortvecLen(buf []byte, n int) []byte {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

func readShortvecLen(buf []byte) (int, int, error) {
	var value, shift uint
	for i := 0; i < 3; i++ {
		if i >= len(buf) {
			return 0, 0, errors.New("truncated compact-u16 length")
		}
		b := buf[i]
		value |= uint(b&0x7f) << shift
		if b&0x80 == 0 {
			if value > 0xffff {
				return 0, 0, errors.New("compact-u16 length out of range")
			}
			return int(value), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.New("compact-u16 length longer than 3 bytes")
}
