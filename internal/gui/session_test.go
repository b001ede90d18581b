package gui

import (
	"testing"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/experiment"
)

type countingPinger struct{ impulses []float64 }

func (p *countingPinger) Trigger(impulse float64) { p.impulses = append(p.impulses, impulse) }

func newSession(t *testing.T, scene string, p Pinger) *Session {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Scene = scene
	s, err := NewSession(experiment.NewRegistry(), cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSessionClickSpawnsOnNextFrame(t *testing.T) {
	s := newSession(t, "drop", nil)

	if err := s.SpawnAt(100, 100); err != nil {
		t.Fatal(err)
	}
	if s.World().Len() != 1 {
		t.Fatalf("spawn must wait for the next frame, got %d bodies", s.World().Len())
	}
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if s.World().Len() != 2 {
		t.Fatalf("expected 2 bodies, got %d", s.World().Len())
	}

	c := s.World().Bodies()[1]
	lo, hi := c.Bounds()
	if r := (hi.X - lo.X) / 2; r < 10 || r > 30 {
		t.Errorf("spawned radius %f outside [10, 30]", r)
	}
}

func TestSessionPause(t *testing.T) {
	s := newSession(t, "drop", nil)
	s.TogglePause()
	before := s.World().Fingerprint()

	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if s.World().Fingerprint() != before || s.Time() != 0 {
		t.Error("paused session should not advance")
	}

	s.TogglePause()
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if len(s.Telemetry()) != 1 {
		t.Errorf("expected one telemetry sample, got %d", len(s.Telemetry()))
	}
}

func TestSessionPingsOnImpact(t *testing.T) {
	p := &countingPinger{}
	s := newSession(t, "pair", p)

	for i := 0; i < 120 && len(p.impulses) == 0; i++ {
		if err := s.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if len(p.impulses) == 0 {
		t.Fatal("expected the pair to collide within two seconds")
	}
	if p.impulses[0] <= 0 {
		t.Errorf("expected a positive impulse, got %f", p.impulses[0])
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession(t, "random", nil)
	start := s.World().Fingerprint()

	for i := 0; i < 30; i++ {
		_ = s.Frame()
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.World().Fingerprint() != start || s.Time() != 0 || len(s.Telemetry()) != 0 {
		t.Error("reset should restore the initial scene")
	}
}
