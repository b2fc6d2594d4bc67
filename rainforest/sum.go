package rainforest

import (
	"git.gammaspectra.live/P2Pool/go-rainforest/types"
)

// Sum Computes the RainForest hash of data with a freshly allocated and
// initialized private rambox (seed 0). Convenient, but pays the full table
// initialization cost on every call; nonce-scanning callers should allocate
// one box and use (*RamBox).Sum instead.
func Sum(data []byte) types.Hash {
	var s State
	s.Init(NewRamBox())
	s.Update(data)
	return s.Final()
}

// SumSeeded Like Sum, but the private rambox is initialized with the given
// seed, selecting an independent hash family from the same message.
func SumSeeded(data []byte, seed uint32) types.Hash {
	var b RamBox
	b.Init(seed)

	var s State
	s.Init(&b)
	s.Update(data)
	return s.Final()
}

// Sum Hashes data using this already-initialized table, mutating it in
// place. This is the performance path for nonce scanning: one box reused
// across thousands of calls, each call's final table state becoming the seed
// context for the next. The resulting long dependency chain across calls is
// intentional and discourages speculative batch computation of candidates.
func (b *RamBox) Sum(data []byte) types.Hash {
	var s State
	s.Init(b)
	s.Update(data)
	return s.Final()
}
