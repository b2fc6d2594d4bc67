package rainforest

import (
	"testing"

	"git.gammaspectra.live/P2Pool/go-rainforest/types"
)

func TestNewHasher(t *testing.T) {
	if _, err := NewHasher(0); err == nil {
		t.Error("expected err for zero cache size")
	}
	if _, err := NewHasher(-1); err == nil {
		t.Error("expected err for negative cache size")
	}
}

func TestHasher_Hash(t *testing.T) {
	h, err := NewHasher(2)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	firstABC := types.MustHashFromString("ebdc601d6a2f043121b490b503d58c63ab8baec0b482c4094db551139cf0012f")
	secondABC := types.MustHashFromString("7eec396282485754726e6f5e53403a0b76222fc8a898305593b434d23f1d956e")
	seededABC := types.MustHashFromString("5f358b675ea019bdbb8457996e168f2d350cbebc40c10e39f924ad86ca9cfd97")

	if result := h.Hash(0, []byte("abc")); result != firstABC {
		t.Errorf("Hash(0, abc) = %s, want %s", result, firstABC)
	}

	// the seed-0 box is cached and mutated, not re-initialized
	if result := h.Hash(0, []byte("abc")); result != secondABC {
		t.Errorf("Hash(0, abc) again = %s, want %s", result, secondABC)
	}

	if result := h.Hash(1, []byte("abc")); result != seededABC {
		t.Errorf("Hash(1, abc) = %s, want %s", result, seededABC)
	}

	// filling the cache past capacity evicts seed 0; the next seed-0 hash
	// starts from a freshly initialized table again
	h.Hash(2, []byte("evict"))

	if result := h.Hash(0, []byte("abc")); result != firstABC {
		t.Errorf("Hash(0, abc) after eviction = %s, want %s", result, firstABC)
	}
}
