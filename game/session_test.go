package game

import (
	"bytes"
	"testing"

	"github.com/pthm-cable/warpath/components"
)

func sessionBytes(t *testing.T, s *Session) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return buf.Bytes()
}

func TestSessionSpawnsVehicles(t *testing.T) {
	s := newTestSession(t, openArena(t), 7, 1, 3)

	if n := countClass(s, components.ClassVehicle); n != 4 {
		t.Fatalf("vehicles = %d, want 4", n)
	}

	h := s.PlayerHandle(0)
	v := s.store.Vehicle(h)
	if v == nil || v.Bot {
		t.Fatal("player 0 handle does not point at a player vehicle")
	}

	bots := 0
	s.store.ForEachVehicle(func(h components.Handle, tr *components.Transform, vs *components.VehicleState) {
		if vs.Bot {
			bots++
		}
	})
	if bots != 3 {
		t.Errorf("bot vehicles = %d, want 3", bots)
	}
}

func TestSessionRejectsEmptyRoster(t *testing.T) {
	if _, err := NewSession(openArena(t), 1, 0, 0); err == nil {
		t.Error("expected an error for a session with no vehicles")
	}
}

func TestSameSeedSameRun(t *testing.T) {
	grid := openArena(t)

	run := func() []byte {
		s := newTestSession(t, grid, 42, 0, 4)
		for i := 0; i < 300; i++ {
			s.Tick()
		}
		return sessionBytes(t, s)
	}

	a, b := run(), run()
	if !bytes.Equal(a, b) {
		t.Error("two runs with the same seed diverged")
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	grid := openArena(t)

	s1 := newTestSession(t, grid, 1, 0, 4)
	s2 := newTestSession(t, grid, 2, 0, 4)
	for i := 0; i < 120; i++ {
		s1.Tick()
		s2.Tick()
	}

	var b1, b2 bytes.Buffer
	if err := s1.store.EncodeTo(&b1); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	if err := s2.store.EncodeTo(&b2); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	if bytes.Equal(b1.Bytes(), b2.Bytes()) {
		t.Error("different seeds produced identical worlds")
	}
}

func TestBotsFightOverTime(t *testing.T) {
	s := newTestSession(t, openArena(t), 99, 0, 4)
	for i := 0; i < 2000; i++ {
		s.Tick()
	}

	stats := s.collector.Flush(s.tick, 0, 0, nil)
	if stats.ShotsFired == 0 {
		t.Error("no shots fired in 2000 ticks of a 4-bot match")
	}
}
