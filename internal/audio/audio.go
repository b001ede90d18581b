// Package audio turns collision impulses into short decaying pings.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

const (
	SampleRate = 44100
	BufferSize = 512

	maxVoices = 16
	// decay time constant of a ping, in seconds
	pingDecay = 0.12
	silence   = 1e-4
)

type voice struct {
	freq  float64
	amp   float64
	phase float64
}

type Processor struct {
	stream *portaudio.Stream
	log    *zap.Logger

	mu     sync.Mutex
	voices []voice
	// impulse that plays at full volume
	fullScale float64
	decay     float64
	active    bool
}

func NewProcessor(fullScale float64, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	if fullScale <= 0 {
		fullScale = 1
	}
	return &Processor{
		log:       log,
		fullScale: fullScale,
		decay:     math.Exp(-1 / (pingDecay * SampleRate)),
	}
}

// Start opens the default output device. On failure the processor stays
// inactive and Trigger keeps working silently.
func (p *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		p.log.Warn("audio unavailable", zap.Error(err))
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.Process)
	if err != nil {
		portaudio.Terminate()
		p.log.Warn("audio output unavailable", zap.Error(err))
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		p.log.Warn("audio stream failed to start", zap.Error(err))
		return err
	}

	p.log.Debug("audio started", zap.Int("sample_rate", SampleRate))
	p.stream = stream
	p.active = true
	return nil
}

func (p *Processor) Stop() {
	if !p.active {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	p.stream = nil
	p.active = false
}

func (p *Processor) Active() bool { return p.active }

// Trigger queues a ping for a collision impulse. Louder impulses ring
// lower and louder.
func (p *Processor) Trigger(impulse float64) {
	impulse = math.Abs(impulse)
	if impulse == 0 || math.IsNaN(impulse) {
		return
	}

	amp := math.Min(impulse/p.fullScale, 1)
	v := voice{
		freq: 880 - 550*amp,
		amp:  0.3 * amp,
	}

	p.mu.Lock()
	if len(p.voices) == maxVoices {
		p.voices = p.voices[1:]
	}
	p.voices = append(p.voices, v)
	p.mu.Unlock()
}

// Voices returns the number of pings still ringing.
func (p *Processor) Voices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.voices)
}

// Process is the stream callback: it mixes every live voice into both
// channels and drops the ones that faded out.
func (p *Processor) Process(out [][]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dt := 1.0 / SampleRate
	for i := range out[0] {
		sample := 0.0
		for j := range p.voices {
			v := &p.voices[j]
			sample += v.amp * math.Sin(2*math.Pi*v.phase)
			v.phase += v.freq * dt
			v.phase -= math.Floor(v.phase)
			v.amp *= p.decay
		}
		s := float32(math.Max(-1, math.Min(1, sample)))
		for ch := range out {
			out[ch][i] = s
		}
	}

	live := p.voices[:0]
	for _, v := range p.voices {
		if v.amp > silence {
			live = append(live, v)
		}
	}
	p.voices = live
}
