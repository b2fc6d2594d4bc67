package rainforest

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

// RamBox The cache-resident scratch table. Every hashed unit of input
// performs several in-place read-modify-write updates on it, so a box reused
// across hashes carries an intentional dependency chain from one hash to the
// next. A RamBox and the State using it are a strictly sequential unit of
// work, never safe for concurrent use.
type RamBox [RamBoxSize]uint64

// NewRamBox Allocates a rambox initialized for the default hash family
// (seed 0).
func NewRamBox() *RamBox {
	var b RamBox
	b.Init(0)
	return &b
}

// Init Deterministically fills the table for the hash family selected by
// seed. The seed is expanded through BLAKE2b-256 into a xoshiro256++ state;
// distinct seeds yield entirely distinct tables. Runs once per table
// lifetime, never mid-hash.
func (b *RamBox) Init(seed uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], seed)
	key := blake2b.Sum256(buf[:])

	s0 := binary.LittleEndian.Uint64(key[0:])
	s1 := binary.LittleEndian.Uint64(key[8:])
	s2 := binary.LittleEndian.Uint64(key[16:])
	s3 := binary.LittleEndian.Uint64(key[24:])

	for i := range b {
		// xoshiro256++
		b[i] = bits.RotateLeft64(s0+s3, 23) + s0

		t := s1 << 17
		s2 ^= s0
		s3 ^= s1
		s1 ^= s2
		s0 ^= s3

		s2 ^= t
		s3 = bits.RotateLeft64(s3, 45)
	}
}
