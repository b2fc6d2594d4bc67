package types

import (
	"math"
	"testing"
)

var (
	powHash          = MustHashFromString("abcf2c2ee4a64a683f24bedb2099dd16ae08c03a1ecc1208bf93a90200000000")
	powDifficulty    = DifficultyFrom64(412975968250)
	targetDifficulty = DifficultyFrom64(229654626174)
)

func TestDifficulty(t *testing.T) {
	hexDiff := "000000000000000000000000683a8b1c"
	diff, err := DifficultyFromString(hexDiff)
	if err != nil {
		t.Fatal(err)
	}

	if diff.String() != hexDiff {
		t.Fatalf("expected %s, got %s", hexDiff, diff)
	}
}

func TestDifficulty_UnmarshalJSON(t *testing.T) {
	hexDiff := "\"0x4970d\""
	var diff Difficulty
	err := diff.UnmarshalJSON([]byte(hexDiff))
	if err != nil {
		t.Fatal(err)
	}

	if diff.Lo != 0x4970d {
		t.Fatalf("expected %d, got %d", 0x4970d, diff.Lo)
	}
}

func TestDifficulty_Division(t *testing.T) {
	check := func(a, b, expected Difficulty) {
		actual := a.Div(b)
		if !actual.Equals(expected) {
			t.Fatalf("expected %s, got %s", expected, actual)
		}
	}

	check(MaxDifficulty, MaxDifficulty, Difficulty{Lo: 1, Hi: 0})
	check(MaxDifficulty, Difficulty{Lo: 0, Hi: 1}, Difficulty{Lo: math.MaxUint64, Hi: 0})
	check(MaxDifficulty, Difficulty{Lo: 1, Hi: 1}, Difficulty{Lo: math.MaxUint64, Hi: 0})
	check(MaxDifficulty, Difficulty{Lo: 2, Hi: 1}, Difficulty{Lo: math.MaxUint64 - 1, Hi: 0})
	check(MaxDifficulty, Difficulty{Lo: 439125228929, Hi: 439125228929}, Difficulty{Lo: 42007935, Hi: 0})
	check(Difficulty{Lo: 0, Hi: math.MaxUint64}, Difficulty{Lo: math.MaxUint64, Hi: 0}, Difficulty{Lo: 0, Hi: 1})
}

func TestDifficultyFromPoW(t *testing.T) {
	diff := DifficultyFromPoW(powHash)

	if !diff.Equals(powDifficulty) {
		t.Errorf("%s does not equal %s", diff, powDifficulty)
	}
}

func TestDifficulty_CheckPoW(t *testing.T) {
	if !targetDifficulty.CheckPoW(powHash) {
		t.Errorf("%s does not pass PoW %s", powHash, targetDifficulty)
	}

	if !powDifficulty.CheckPoW(powHash) {
		t.Errorf("%s does not pass PoW %s", powHash, powDifficulty)
	}

	// one past the extracted difficulty must overflow
	if powDifficulty.Add(DifficultyFrom64(1)).CheckPoW(powHash) {
		t.Errorf("%s passes PoW %s incorrectly", powHash, powDifficulty.Add(DifficultyFrom64(1)))
	}

	powHash2 := powHash
	powHash2[len(powHash2)-1]++

	if targetDifficulty.CheckPoW(powHash2) {
		t.Errorf("%s does pass PoW %s incorrectly", powHash2, targetDifficulty)
	}
}
