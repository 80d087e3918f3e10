// Package audio plays short synthesized cues for game events.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/space-dodger/internal/dodger"
)

const sampleRate = beep.SampleRate(44100)

// Player sends streamers to an output device.
type Player interface {
	Play(s ...beep.Streamer)
}

type speakerPlayer struct{}

func (speakerPlayer) Play(s ...beep.Streamer) { speaker.Play(s...) }

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker opens the output device once per process; the speaker is global.
func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Cues is a dodger.Observer that turns events into sounds. A Cues without a
// player is silent.
type Cues struct {
	mu     sync.Mutex
	player Player
	muted  bool
}

// New opens the speaker unless muted. Audio is optional: when the device
// cannot be opened (headless host, SSH server) the cues stay silent.
func New(muted bool, logger *log.Logger) *Cues {
	if muted {
		return &Cues{muted: true}
	}
	if err := initSpeaker(); err != nil {
		if logger != nil {
			logger.Warn("audio disabled", "err", err)
		}
		return &Cues{}
	}
	return &Cues{player: speakerPlayer{}}
}

// NewWithPlayer creates cues that play through p.
func NewWithPlayer(p Player) *Cues {
	return &Cues{player: p}
}

// SetMuted toggles output.
func (c *Cues) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

// Muted reports whether output is off.
func (c *Cues) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted || c.player == nil
}

// OnEvent implements dodger.Observer.
func (c *Cues) OnEvent(e dodger.Event) {
	c.mu.Lock()
	player, muted := c.player, c.muted
	c.mu.Unlock()

	if muted || player == nil {
		return
	}
	if s := Cue(e.Kind); s != nil {
		player.Play(s)
	}
}

// Cue builds the sound for an event kind, or nil for silent events.
func Cue(kind dodger.EventKind) beep.Streamer {
	switch kind {
	case dodger.EventCollision:
		// Low buzz
		return tone(110, 180*time.Millisecond, -0.5)
	case dodger.EventPickup:
		// Two-note chime
		return beep.Seq(
			tone(880, 60*time.Millisecond, -1),
			tone(1320, 90*time.Millisecond, -1),
		)
	case dodger.EventSpeedUp:
		return beep.Seq(
			tone(440, 50*time.Millisecond, -1.5),
			beep.Silence(sampleRate.N(20*time.Millisecond)),
			tone(660, 50*time.Millisecond, -1.5),
		)
	case dodger.EventGameOver:
		return beep.Seq(
			tone(330, 150*time.Millisecond, -1),
			tone(220, 150*time.Millisecond, -1),
			tone(110, 300*time.Millisecond, -1),
		)
	}
	return nil
}

func tone(freq float64, d time.Duration, volume float64) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(sampleRate.N(d))
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), sine),
		Base:     2,
		Volume:   volume,
	}
}

var _ dodger.Observer = (*Cues)(nil)
