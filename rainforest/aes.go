package rainforest

var te0, te1, te2, te3 = encLut[0], encLut[1], encLut[2], encLut[3]

// soft_aesenc One AES encryption round over a 16-byte state held as four
// little-endian uint32 columns: SubBytes, ShiftRows, MixColumns, then xor of
// the round key. Used purely as a diffusion primitive; there is no key
// schedule and no secrecy involved.
//
//go:nosplit
func soft_aesenc(state *[4]uint32, key *[4]uint32) {

	s0 := state[0]
	s1 := state[1]
	s2 := state[2]
	s3 := state[3]

	state[0] = key[0] ^ te0[uint8(s0)] ^ te1[uint8(s1>>8)] ^ te2[uint8(s2>>16)] ^ te3[uint8(s3>>24)]
	state[1] = key[1] ^ te0[uint8(s1)] ^ te1[uint8(s2>>8)] ^ te2[uint8(s3>>16)] ^ te3[uint8(s0>>24)]
	state[2] = key[2] ^ te0[uint8(s2)] ^ te1[uint8(s3>>8)] ^ te2[uint8(s0>>16)] ^ te3[uint8(s1>>24)]
	state[3] = key[3] ^ te0[uint8(s3)] ^ te1[uint8(s0>>8)] ^ te2[uint8(s1>>16)] ^ te3[uint8(s2>>24)]
}

// aes_single_round Encrypts the low accumulator half (q0, q1) for one round
// keyed by the high half (q2, q3). Bit-exact with the hardware AESENC
// instruction on the same data; a dedicated asm path can replace this as long
// as the conformance vectors still pass.
//
//go:nosplit
func aes_single_round(q *[4]uint64) {
	state := [4]uint32{uint32(q[0]), uint32(q[0] >> 32), uint32(q[1]), uint32(q[1] >> 32)}
	key := [4]uint32{uint32(q[2]), uint32(q[2] >> 32), uint32(q[3]), uint32(q[3] >> 32)}

	soft_aesenc(&state, &key)

	q[0] = uint64(state[0]) | uint64(state[1])<<32
	q[1] = uint64(state[2]) | uint64(state[3])<<32
}
