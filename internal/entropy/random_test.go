package entropy

import "testing"

func TestDeriveDeterministic(t *testing.T) {
	a := Derive(1, "n", "coast", "0")
	b := Derive(1, "n", "coast", "0")
	if a != b {
		t.Fatalf("Derive not deterministic: %d != %d", a, b)
	}
}

func TestDeriveSeparatesLabels(t *testing.T) {
	cases := [][2][]string{
		{{"n", "ts", "0"}, {"n", "ts", "1"}},
		{{"n", "ts"}, {"w", "ts"}},
		{{"ab", "c"}, {"a", "bc"}},
	}
	for _, c := range cases {
		if Derive(7, c[0]...) == Derive(7, c[1]...) {
			t.Errorf("Derive(%v) == Derive(%v)", c[0], c[1])
		}
	}
	if Derive(1, "x") == Derive(2, "x") {
		t.Error("Derive should depend on the base seed")
	}
}

func TestSeedNonZero(t *testing.T) {
	for i := 0; i < 32; i++ {
		if Seed() <= 0 {
			t.Fatal("Seed returned a non-positive value")
		}
	}
}

func TestShuffleReproducible(t *testing.T) {
	a := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := append([]int(nil), a...)
	Shuffle(NewRand(3), a)
	Shuffle(NewRand(3), b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffles diverged at %d: %v vs %v", i, a, b)
		}
	}
	seen := make(map[int]bool)
	for _, v := range a {
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Fatalf("shuffle lost elements: %v", a)
	}
}

func TestRemoveAt(t *testing.T) {
	s := RemoveAt([]int{1, 2, 3, 4}, 1)
	if len(s) != 3 || s[1] != 4 {
		t.Fatalf("RemoveAt = %v, want [1 4 3]", s)
	}
	s = RemoveAt([]int{9}, 0)
	if len(s) != 0 {
		t.Fatalf("RemoveAt on single element = %v", s)
	}
}
