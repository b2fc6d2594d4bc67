package types

import (
	"encoding/binary"
	"errors"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	fasthex "github.com/tmthrgd/go-hex"
	"lukechampine.com/uint128"
)

const DifficultySize = 16

//nolint:recvcheck
type Difficulty uint128.Uint128

var ZeroDifficulty = Difficulty(uint128.Zero)
var MaxDifficulty = Difficulty(uint128.Max)

func DifficultyFrom64(v uint64) Difficulty {
	return Difficulty(uint128.From64(v))
}

func NewDifficulty(lo, hi uint64) Difficulty {
	return Difficulty(uint128.New(lo, hi))
}

func DifficultyFromString(s string) (Difficulty, error) {
	if len(s) != DifficultySize*2 {
		return ZeroDifficulty, errors.New("wrong difficulty size")
	}
	buf, err := fasthex.DecodeString(s)
	if err != nil {
		return ZeroDifficulty, err
	}
	return NewDifficulty(binary.BigEndian.Uint64(buf[8:]), binary.BigEndian.Uint64(buf[:8])), nil
}

func (d Difficulty) Equals(v Difficulty) bool {
	return uint128.Uint128(d).Equals(uint128.Uint128(v))
}

func (d Difficulty) Cmp(v Difficulty) int {
	return uint128.Uint128(d).Cmp(uint128.Uint128(v))
}

func (d Difficulty) Add(v Difficulty) Difficulty {
	return Difficulty(uint128.Uint128(d).Add(uint128.Uint128(v)))
}

func (d Difficulty) Sub(v Difficulty) Difficulty {
	return Difficulty(uint128.Uint128(d).Sub(uint128.Uint128(v)))
}

func (d Difficulty) Mul(v Difficulty) Difficulty {
	return Difficulty(uint128.Uint128(d).Mul(uint128.Uint128(v)))
}

func (d Difficulty) Mul64(v uint64) Difficulty {
	return Difficulty(uint128.Uint128(d).Mul64(v))
}

func (d Difficulty) Div(v Difficulty) Difficulty {
	return Difficulty(uint128.Uint128(d).Div(uint128.Uint128(v)))
}

func (d Difficulty) Div64(v uint64) Difficulty {
	return Difficulty(uint128.Uint128(d).Div64(v))
}

func (d Difficulty) String() string {
	var buf [DifficultySize]byte
	binary.BigEndian.PutUint64(buf[:8], d.Hi)
	binary.BigEndian.PutUint64(buf[8:], d.Lo)
	return fasthex.EncodeToString(buf[:])
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	var raw [DifficultySize]byte
	binary.BigEndian.PutUint64(raw[:8], d.Hi)
	binary.BigEndian.PutUint64(raw[8:], d.Lo)

	var buf [DifficultySize*2 + 2]byte
	buf[0] = '"'
	buf[DifficultySize*2+1] = '"'
	fasthex.Encode(buf[1:], raw[:])
	return buf[:], nil
}

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	if b[0] == '"' {
		if len(b) < 2 || b[len(b)-1] != '"' {
			return errors.New("invalid difficulty")
		}
		s := string(b[1 : len(b)-1])
		if strings.HasPrefix(s, "0x") {
			s = s[2:]
			if len(s) > DifficultySize*2 {
				return errors.New("difficulty too large")
			}
			s = strings.Repeat("0", DifficultySize*2-len(s)) + s
		}
		diff, err := DifficultyFromString(s)
		if err != nil {
			return err
		}
		*d = diff
		return nil
	}

	// plain number
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return err
	}
	*d = DifficultyFrom64(v)
	return nil
}

var max256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// DifficultyFromPoW Returns the maximum difficulty a proof-of-work hash
// passes, (2^256 - 1) / hash, with the hash read as a little-endian integer.
func DifficultyFromPoW(powHash Hash) Difficulty {
	if powHash == ZeroHash {
		return ZeroDifficulty
	}

	var be [HashSize]byte
	for i := range be {
		be[i] = powHash[HashSize-1-i]
	}

	q := new(big.Int).Div(max256, new(big.Int).SetBytes(be[:]))
	if q.BitLen() > DifficultySize*8 {
		return MaxDifficulty
	}

	var buf [DifficultySize]byte
	q.FillBytes(buf[:])
	return NewDifficulty(binary.BigEndian.Uint64(buf[8:]), binary.BigEndian.Uint64(buf[:8]))
}

// CheckPoW Verifies hash * difficulty < 2^256, with the hash read as a
// little-endian integer. Same acceptance rule as Monero's check_hash.
func (d Difficulty) CheckPoW(powHash Hash) bool {
	var h [4]uint64
	for i := range h {
		h[i] = binary.LittleEndian.Uint64(powHash[i*8:])
	}

	// 256x128 -> 384-bit product, accumulated low to high. The hash passes
	// if nothing spills past the fourth word.
	var r [6]uint64
	mulAdd := func(idx int, a, b uint64) {
		hi, lo := bits.Mul64(a, b)
		var carry uint64
		r[idx], carry = bits.Add64(r[idx], lo, 0)
		r[idx+1], carry = bits.Add64(r[idx+1], hi, carry)
		for k := idx + 2; carry != 0 && k < len(r); k++ {
			r[k], carry = bits.Add64(r[k], 0, carry)
		}
	}

	for i := range h {
		mulAdd(i, h[i], d.Lo)
		mulAdd(i+1, h[i], d.Hi)
	}

	return r[4]|r[5] == 0
}
