package rainforest

import (
	"fmt"

	"git.gammaspectra.live/P2Pool/go-rainforest/types"
)

// SelfTestMessage 80-byte starting pattern of the cross-implementation
// self-check, a recognizable complex bit pattern the size of a block header.
var SelfTestMessage = [80]byte{
	0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80,
	0x01, 0x03, 0x05, 0x09, 0x11, 0x21, 0x41, 0x81,
	0x02, 0x02, 0x06, 0x0A, 0x12, 0x22, 0x42, 0x82,
	0x05, 0x06, 0x04, 0x0C, 0x14, 0x24, 0x44, 0x84,
	0x09, 0x0A, 0x0C, 0x08, 0x18, 0x28, 0x48, 0x88,
	0x11, 0x12, 0x14, 0x18, 0x10, 0x30, 0x50, 0x90,
	0x21, 0x22, 0x24, 0x28, 0x30, 0x20, 0x60, 0xA0,
	0x41, 0x42, 0x44, 0x48, 0x50, 0x60, 0x40, 0xC0,
	0x81, 0x82, 0x84, 0x88, 0x90, 0xA0, 0xC0, 0x80,
	0x18, 0x24, 0x42, 0x81, 0x99, 0x66, 0x55, 0xAA,
}

// selfTestRounds feedback iterations of the self-check loop
const selfTestRounds = 256

// selfTestOutput digest after selfTestRounds iterations, pinned by the
// reference implementation (scripts/refvec.py regenerates it)
var selfTestOutput = types.MustHashFromString("6d492bca486c9a249d446ff323067b6bb2bc5a8cb780e3d2f603394e27de7323")

// SelfTest Runs the cross-implementation conformance check: starting from
// SelfTestMessage, 256 times xor every message byte with the iteration
// counter, hash with a seed-0 rambox reused across all iterations, and
// overwrite the first 32 message bytes with the digest just produced. Any
// deviation from the pinned final digest indicates an implementation defect,
// never a transient condition.
func SelfTest() error {
	box := NewRamBox()

	msg := SelfTestMessage
	var out types.Hash

	for loops := 0; loops < selfTestRounds; loops++ {
		for i := range msg {
			msg[i] ^= uint8(loops)
		}

		out = box.Sum(msg[:])

		// the output is reinjected at the beginning of the message,
		// before it is modified again
		copy(msg[:], out[:])
	}

	if out != selfTestOutput {
		return fmt.Errorf("rainforest: self test failed: got %s, expected %s", out, selfTestOutput)
	}
	return nil
}
