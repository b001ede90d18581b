package gui

import (
	"math/rand"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/experiment"
	"github.com/san-kum/circlesim/internal/physics"
)

const maxTelemetry = 300

// Pinger receives the impulse of every resolved contact.
type Pinger interface {
	Trigger(impulse float64)
}

// Session is the window-independent half of the app: it owns the world
// and reacts to input.
type Session struct {
	registry *experiment.Registry
	cfg      *config.Config
	world    *physics.World
	rng      *rand.Rand
	pinger   Pinger

	paused    bool
	time      float64
	telemetry []float64
}

func NewSession(registry *experiment.Registry, cfg *config.Config, pinger Pinger) (*Session, error) {
	s := &Session{
		registry: registry,
		cfg:      cfg,
		pinger:   pinger,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Frame advances the world by one fixed step unless paused.
func (s *Session) Frame() error {
	if s.paused {
		return nil
	}
	if err := s.world.Step(s.cfg.Dt); err != nil {
		return err
	}
	s.time += s.cfg.Dt

	if s.pinger != nil {
		for _, c := range s.world.Contacts() {
			if c.Impulse != 0 {
				s.pinger.Trigger(c.Impulse)
			}
		}
	}

	s.telemetry = append(s.telemetry, s.world.Energy())
	if len(s.telemetry) > maxTelemetry {
		s.telemetry = s.telemetry[1:]
	}
	return nil
}

// SpawnAt queues a resting circle centred on (x, y) with a random radius
// and colour. It appears on the next frame.
func (s *Session) SpawnAt(x, y float64) error {
	c, err := experiment.RandomCircle(s.rng, dynamo.V(x, y), s.cfg.Spawn)
	if err != nil {
		return err
	}
	s.world.Spawn(c)
	return nil
}

func (s *Session) TogglePause() { s.paused = !s.paused }

// Reset rebuilds the scene from the config seed.
func (s *Session) Reset() error {
	w, err := s.registry.BuildWorld(s.cfg)
	if err != nil {
		return err
	}
	s.world = w
	s.rng = rand.New(rand.NewSource(s.cfg.Seed + 1))
	s.time = 0
	s.telemetry = s.telemetry[:0]
	return nil
}

func (s *Session) World() *physics.World { return s.world }
func (s *Session) Paused() bool          { return s.paused }
func (s *Session) Time() float64         { return s.time }
func (s *Session) Telemetry() []float64  { return s.telemetry }
