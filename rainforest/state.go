package rainforest

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"

	"git.gammaspectra.live/P2Pool/go-rainforest/types"
	"golang.org/x/sys/cpu"
)

// castagnoli CRC32C, the polynomial with a dedicated instruction on both
// SSE4.2 and ARMv8 cores; hash/crc32 takes the hardware path on its own.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// State RainForest hashing context, to reuse between hashes. Not thread-safe.
//
// Created by Init, fed by Update, consumed by Final. After Final the state
// must be re-Init before any further use.
type State struct {
	box *RamBox

	// q 256-bit accumulator, least significant word first. The digest is
	// the little-endian bytes of q0..q3.
	q   [4]uint64
	crc uint32

	// word pending little-endian message bytes; the buffered byte count is
	// length&3
	word   uint32
	length uint64

	_ cpu.CacheLinePad // prevents false sharing between per-worker states
}

// Init Resets the accumulator, checksum, pending buffer and length counter,
// and associates the already-initialized box with this state. The table
// content is not touched.
func (s *State) Init(box *RamBox) {
	if box == nil {
		panic("rainforest: nil rambox")
	}
	s.box = box
	s.q = [4]uint64{}
	s.crc = 0
	s.word = 0
	s.length = 0
}

// round Mixes one 32-bit unit: folds it into the running CRC32C checksum,
// then performs RamBoxLoops serially dependent read-modify-write passes over
// the rambox, each diffused through one AES encryption round. Every pass
// reads the table state written by the previous one and derives the next
// index from the just-updated accumulator, so the passes cannot be reordered
// or evaluated in parallel.
func (s *State) round(w uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], w)
	s.crc = crc32.Update(s.crc, castagnoli, buf[:])
	crc := s.crc

	idx := crc & ramBoxMask
	for loop := 0; loop < RamBoxLoops; loop++ {
		e := s.box[idx]

		s.q[0] += e
		s.q[1] = bits.RotateLeft64(s.q[1]^e, -int(crc&63))
		s.q[2] ^= bits.RotateLeft64(s.q[0], 32) + uint64(crc)
		s.q[3] += e * golden

		aes_single_round(&s.q)

		s.q[2] = bits.RotateLeft64(s.q[2], 17) ^ s.q[0]
		s.q[3] = bits.RotateLeft64(s.q[3], 43) + s.q[1]

		s.box[idx] = bits.RotateLeft64(e, 13) + (s.q[3] ^ uint64(crc))
		idx = (uint32(s.q[0]) ^ crc) & ramBoxMask
	}
}

// Update Streams message bytes into the state. Chunking is irrelevant: the
// digest depends only on the concatenated byte sequence and total length.
func (s *State) Update(data []byte) {
	word := s.word
	n := s.length

	// finish a partial pending word first
	for len(data) > 0 && n&3 != 0 {
		word |= uint32(data[0]) << (8 * (n & 3))
		n++
		data = data[1:]
		if n&3 == 0 {
			s.round(word)
			word = 0
		}
	}

	for len(data) >= 4 {
		s.round(binary.LittleEndian.Uint32(data))
		data = data[4:]
		n += 4
	}

	for i, b := range data {
		word |= uint32(b) << (8 * i)
	}
	n += uint64(len(data))

	s.word = word
	s.length = n
}

// Final Flushes any pending partial word, folds the total byte count and one
// final checksum pass through the mixer, and returns the digest. Terminal:
// the state is not valid for further Update/Final without a fresh Init.
func (s *State) Final() types.Hash {
	if n := s.length & 3; n != 0 {
		// complete the partial word with a marker at the true byte count
		s.round(s.word | 0x80<<(8*n))
		s.word = 0
	}

	s.round(uint32(s.length))
	s.round(bits.ReverseBytes32(s.crc))

	var out types.Hash
	binary.LittleEndian.PutUint64(out[0:], s.q[0])
	binary.LittleEndian.PutUint64(out[8:], s.q[1])
	binary.LittleEndian.PutUint64(out[16:], s.q[2])
	binary.LittleEndian.PutUint64(out[24:], s.q[3])
	return out
}
