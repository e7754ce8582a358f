package effects

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/avelin/estate-notify/internal/core/domain"
	apperrors "github.com/avelin/estate-notify/internal/core/errors"
	"github.com/avelin/estate-notify/internal/core/ports"
)

// Synthesized-tone parameters for the fallback cue.
const (
	toneFrequency  = 800.0
	toneDurationMs = 500
)

// CueStrategy is one way of producing the audible cue. Strategies are tried
// in order; each catches its own failure so the next one gets a chance.
type CueStrategy interface {
	Name() string
	Play() error
}

// CuePlayer plays an audible cue for notifications whose policy asks for one,
// unless the recipient disabled sound. Every strategy failing reports
// ErrNoCuePlayed; the dispatcher logs it and delivery continues.
type CuePlayer struct {
	strategies   []CueStrategy
	soundEnabled bool
	logger       *slog.Logger
}

var _ ports.SideEffectExecutor = (*CuePlayer)(nil)

// NewCuePlayer creates the audio executor with the given strategy chain.
func NewCuePlayer(strategies []CueStrategy, soundEnabled bool, logger *slog.Logger) *CuePlayer {
	return &CuePlayer{
		strategies:   strategies,
		soundEnabled: soundEnabled,
		logger:       logger.With("component", "audio"),
	}
}

func (p *CuePlayer) Name() string {
	return "audio"
}

func (p *CuePlayer) Execute(_ context.Context, _ domain.Notification, policy domain.NotificationPolicy) error {
	if !policy.PlaySound || !p.soundEnabled {
		return nil
	}

	for _, s := range p.strategies {
		if err := s.Play(); err != nil {
			p.logger.Debug("cue strategy failed", "cue", s.Name(), "error", err)
			continue
		}
		return nil
	}

	return apperrors.ErrNoCuePlayed
}

// AssetCue plays the pre-recorded notification sound.
type AssetCue struct {
	path     string
	initOnce sync.Once
	initErr  error
}

// NewAssetCue creates the recorded-cue strategy for a WAV file.
func NewAssetCue(path string) *AssetCue {
	return &AssetCue{path: path}
}

func (c *AssetCue) Name() string {
	return "asset"
}

func (c *AssetCue) Play() error {
	f, err := os.Open(c.path)
	if err != nil {
		return err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		_ = f.Close()
		return err
	}

	c.initOnce.Do(func() {
		c.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(100*time.Millisecond))
	})
	if c.initErr != nil {
		_ = streamer.Close()
		return c.initErr
	}

	// Playback is asynchronous; the callback releases the file once done so
	// the pipeline is never blocked for the length of the cue.
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		_ = streamer.Close()
	})))
	return nil
}

// ToneCue synthesizes a short fixed-frequency tone when the recorded asset
// cannot play (missing file, no audio device for the decoder backend).
type ToneCue struct {
	freq       float64
	durationMs int
	beep       func(freq float64, durationMs int) error
}

// NewToneCue creates the synthesized-tone fallback.
func NewToneCue() *ToneCue {
	return &ToneCue{
		freq:       toneFrequency,
		durationMs: toneDurationMs,
		beep:       beeep.Beep,
	}
}

func (c *ToneCue) Name() string {
	return "tone"
}

func (c *ToneCue) Play() error {
	return c.beep(c.freq, c.durationMs)
}
