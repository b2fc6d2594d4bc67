package rainforest

import (
	"errors"
	"sync"

	"github.com/floatdrop/lru"

	"git.gammaspectra.live/P2Pool/go-rainforest/types"
)

// Hasher Hashes across several hash families without paying table
// initialization per call, keeping initialized ramboxes cached per seed.
type Hasher interface {
	// Hash Hashes input under the family selected by seed, reusing and
	// serially mutating the cached rambox for that seed.
	Hash(seed uint32, input []byte) types.Hash
	// Close Releases the cached tables. Terminal.
	Close()
}

type hasher struct {
	lock  sync.Mutex
	boxes *lru.LRU[uint32, *RamBox]
}

// NewHasher Creates a Hasher keeping up to cached initialized ramboxes,
// evicting least recently used seeds.
func NewHasher(cached int) (Hasher, error) {
	if cached <= 0 {
		return nil, errors.New("rainforest: cache size must be positive")
	}
	return &hasher{
		boxes: lru.New[uint32, *RamBox](cached),
	}, nil
}

func (h *hasher) Hash(seed uint32, input []byte) types.Hash {
	h.lock.Lock()
	defer h.lock.Unlock()

	var box *RamBox
	if v := h.boxes.Get(seed); v != nil {
		box = *v
	} else {
		box = new(RamBox)
		box.Init(seed)
		h.boxes.Set(seed, box)
	}

	return box.Sum(input)
}

func (h *hasher) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.boxes = nil
}
