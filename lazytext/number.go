package lazytext

import "strconv"

// Numeric writers. All of them format into a small byte buffer with
// strconv and issue a single exact-size write, so digits batch into
// the scratch buffer like any other small write.

// Int returns a builder writing the decimal representation of v.
func Int(v int64) Builder {
	var buf [20]byte
	return asciiWrite(strconv.AppendInt(buf[:0], v, 10))
}

// Uint returns a builder writing the decimal representation of v.
func Uint(v uint64) Builder {
	var buf [20]byte
	return asciiWrite(strconv.AppendUint(buf[:0], v, 10))
}

// Hex returns a builder writing the lowercase hexadecimal
// representation of v, without a prefix.
func Hex(v uint64) Builder {
	var buf [16]byte
	return asciiWrite(strconv.AppendUint(buf[:0], v, 16))
}

// Float returns a builder writing v formatted as by strconv
// (format 'f', 'e', 'g', ...; prec -1 for the shortest exact form).
func Float(v float64, format byte, prec int) Builder {
	var buf [32]byte
	return asciiWrite(strconv.AppendFloat(buf[:0], v, format, prec, 64))
}

// asciiWrite writes a formatted ASCII byte sequence, one code unit per
// byte. The slice escapes into the fill closure, so callers hand over
// ownership.
func asciiWrite(digits []byte) Builder {
	return writeN(len(digits), func(dst []uint16) {
		for i, b := range digits {
			dst[i] = uint16(b)
		}
	})
}
