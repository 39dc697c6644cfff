package types

import "math/big"

var bigOne = big.NewInt(1)

// bigintToBytes encodes v the way the target VM encodes integer atoms:
// minimal big-endian two's complement, with a leading zero byte stripped
// unless required to keep a positive value's high bit clear. Zero encodes
// as the empty byte string (which is also Nil's representation).
func bigintToBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return nil
	}

	if v.Sign() > 0 {
		b := v.Bytes()
		if len(b) > 0 && b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}

	// Negative: two's complement over the minimal number of bytes whose
	// high bit is set.
	bitLen := v.BitLen()
	nBytes := bitLen/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	twos := new(big.Int).Add(mod, v)
	b := twos.Bytes()
	for len(b) < nBytes {
		b = append([]byte{0xff}, b...)
	}
	return b
}
