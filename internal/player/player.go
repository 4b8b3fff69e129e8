package player

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/olivier-w/wavescope/internal/audio"
)

const outputChannels = 2

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.mu.Unlock()
}

// Player plays one file through the audio graph.
type Player struct {
	decoder     audioDecoder
	counter     *countingReader
	graph       *audio.Graph
	otoCtx      *oto.Context
	otoPlayer   *oto.Player
	duration    time.Duration
	bytesPerSec int
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	logger      *slog.Logger
	mu          sync.Mutex
	closed      bool
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   OutputSampleRate,
			ChannelCount: outputChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// New opens path and starts playing it through graph.
func New(path string, graph *audio.Graph, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	src, err := Open(path)
	if err != nil {
		return nil, err
	}

	ctx, err := initOto()
	if err != nil {
		src.Close()
		return nil, err
	}
	graph.SetSampleRate(OutputSampleRate)

	p := &Player{
		decoder:     src.dec,
		counter:     &countingReader{reader: src},
		graph:       graph,
		otoCtx:      ctx,
		duration:    src.Duration(),
		bytesPerSec: src.BytesPerSecond(),
		volume:      0.8,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
		cleanup:     func() { src.Close() },
		logger:      logger,
	}

	p.mu.Lock()
	err = p.startOutput()
	p.mu.Unlock()
	if err != nil {
		src.Close()
		return nil, err
	}
	p.otoPlayer.Play()

	logger.Info("playing",
		"path", path,
		"format", filepath.Ext(path),
		"channels", src.Channels(),
		"duration", p.duration.Round(time.Millisecond))

	go p.monitor(p.done)
	return p, nil
}

// startOutput replaces the device player so buffered audio from before a
// seek is dropped. Callers hold p.mu.
func (p *Player) startOutput() error {
	r, err := p.graph.Wrap(p.counter, p.decoder.ChannelCount())
	if err != nil {
		return err
	}
	if old := p.otoPlayer; old != nil {
		old.Pause()
		_ = old.Close()
	}
	p.otoPlayer = p.otoCtx.NewPlayer(r)
	p.otoPlayer.SetVolume(p.volume)
	return nil
}

func (p *Player) monitor(done chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		finished := !p.paused &&
			p.counter.Pos() >= p.decoder.Length() &&
			!p.otoPlayer.IsPlaying()
		p.mu.Unlock()

		if finished {
			close(done)
			return
		}
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Restart seeks to the beginning and resumes playback.
// This resets the done channel so Done() can be used again.
func (p *Player) Restart() error {
	if err := p.SeekTo(0, true); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.done:
		p.done = make(chan struct{})
		go p.monitor(p.done)
	default:
	}
	return nil
}

// Play resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer != nil {
		p.otoPlayer.Play()
	}
	p.paused = false
}

// Pause stops playback, keeping the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	p.paused = true
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	if p.Paused() {
		p.Play()
	} else {
		p.Pause()
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	return bytesToDuration(p.counter.Pos(), p.bytesPerSec)
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by the given delta from current position.
func (p *Player) Seek(delta time.Duration) error {
	return p.SeekTo(p.Position()+delta, !p.Paused())
}

// clampSeekByteOffset converts a target time to a byte offset within
// [0, length], aligned down to a whole frame.
func clampSeekByteOffset(target time.Duration, bytesPerSec int, length int64, frameSize int) int64 {
	pos := int64(target.Seconds() * float64(bytesPerSec))
	pos = min(max(pos, 0), length)
	return pos - pos%int64(frameSize)
}

// SeekTo jumps to target and either resumes or stays paused.
func (p *Player) SeekTo(target time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frameSize := p.decoder.ChannelCount() * 2
	newPos := clampSeekByteOffset(target, p.bytesPerSec, p.decoder.Length(), frameSize)
	if _, err := p.decoder.Seek(newPos, io.SeekStart); err != nil {
		return &DecodeError{Op: "seek", Err: err}
	}
	p.counter.SetPos(newPos)
	p.paused = !resume

	if p.otoCtx == nil {
		return nil
	}
	if err := p.startOutput(); err != nil {
		return err
	}
	if resume {
		p.otoPlayer.Play()
	}
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = min(max(v, 0), 1)
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.SetVolume(p.Volume() + delta)
}

// Close releases all resources. Closing twice, or closing a nil player, is
// a no-op.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
		_ = p.otoPlayer.Close()
	}
	if p.cleanup != nil {
		p.cleanup()
	}
	if p.logger != nil {
		p.logger.Info("player closed")
	}
}
