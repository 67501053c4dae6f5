package rng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a := New(1234)
	b := New(1234)

	for i := 0; i < 100; i++ {
		if av, bv := a.Spread().Uint64(), b.Spread().Uint64(); av != bv {
			t.Fatalf("draw %d diverged: %d vs %d", i, av, bv)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 32; i++ {
		if a.Bots().Uint64() == b.Bots().Uint64() {
			same++
		}
	}
	if same == 32 {
		t.Fatal("seeds 1 and 2 produced identical sequences")
	}
}

func TestStreamIndependence(t *testing.T) {
	// Draws on one stream must not perturb another: interleave draws on
	// the bots stream in run b and compare the spread stream outputs.
	a := New(99)
	b := New(99)

	var wantSpread []uint64
	for i := 0; i < 50; i++ {
		wantSpread = append(wantSpread, a.Spread().Uint64())
	}

	for i := 0; i < 50; i++ {
		b.Bots().Uint64()
		b.Bots().Uint64()
		if got := b.Spread().Uint64(); got != wantSpread[i] {
			t.Fatalf("spread draw %d perturbed by bots draws: %d vs %d", i, got, wantSpread[i])
		}
	}
}

func TestUnknownStreamPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Named with unknown stream did not panic")
		}
	}()
	New(1).Named("no-such-stream")
}

func TestStateRoundTrip(t *testing.T) {
	a := New(7)
	for i := 0; i < 17; i++ {
		a.Damage().Uint64()
	}

	state, err := a.Damage().MarshalState()
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}

	b := New(7)
	if err := b.Damage().UnmarshalState(state); err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}

	for i := 0; i < 20; i++ {
		if av, bv := a.Damage().Uint64(), b.Damage().Uint64(); av != bv {
			t.Fatalf("restored stream diverged at draw %d", i)
		}
	}
}
