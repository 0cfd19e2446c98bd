package tracker

import "testing"

func TestRecordAndLastKnown(t *testing.T) {
	tr := New()

	if _, ok := tr.LastKnown("g1", "Ann"); ok {
		t.Fatal("unknown player has a position")
	}

	tr.Record("g1", "Ann", Position{X: 100, Z: 200, Y: 5})
	pos, ok := tr.LastKnown("g1", "Ann")
	if !ok || pos.X != 100 || pos.Z != 200 {
		t.Errorf("pos = %+v, ok = %v", pos, ok)
	}

	// Guilds are isolated.
	if _, ok := tr.LastKnown("g2", "Ann"); ok {
		t.Error("position leaked across guilds")
	}
}

func TestTravelledAccumulates(t *testing.T) {
	tr := New()
	tr.Record("g1", "Ann", Position{X: 0, Z: 0})
	if got := tr.Travelled("g1", "Ann"); got != 0 {
		t.Errorf("travelled after one sample = %v", got)
	}

	tr.Record("g1", "Ann", Position{X: 300, Z: 400})
	if got := tr.Travelled("g1", "Ann"); got != 500 {
		t.Errorf("travelled = %v, want 500", got)
	}

	tr.Record("g1", "Ann", Position{X: 300, Z: 500})
	if got := tr.Travelled("g1", "Ann"); got != 600 {
		t.Errorf("travelled = %v, want 600", got)
	}
}

func TestTravelledIgnoresHeight(t *testing.T) {
	tr := New()
	tr.Record("g1", "Ann", Position{X: 0, Z: 0, Y: 0})
	tr.Record("g1", "Ann", Position{X: 0, Z: 0, Y: 120})
	if got := tr.Travelled("g1", "Ann"); got != 0 {
		t.Errorf("vertical movement counted: %v", got)
	}
}

func TestReset(t *testing.T) {
	tr := New()
	tr.Record("g1", "Ann", Position{X: 0, Z: 0})
	tr.Record("g1", "Ann", Position{X: 3, Z: 4})
	tr.Reset("g1", "Ann")

	if got := tr.Travelled("g1", "Ann"); got != 0 {
		t.Errorf("travelled after reset = %v", got)
	}
	if _, ok := tr.LastKnown("g1", "Ann"); ok {
		t.Error("position survived reset")
	}
}
