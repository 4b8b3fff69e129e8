package player

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSeekDecoder struct {
	pos        int64
	length     int64
	sampleRate int
	channels   int
	seekErr    error
}

func (d *stubSeekDecoder) Read([]byte) (int, error) { return 0, io.EOF }

func (d *stubSeekDecoder) Seek(offset int64, whence int) (int64, error) {
	if d.seekErr != nil {
		return d.pos, d.seekErr
	}
	switch whence {
	case io.SeekStart:
		d.pos = offset
	case io.SeekCurrent:
		d.pos += offset
	case io.SeekEnd:
		d.pos = d.length + offset
	}
	return d.pos, nil
}

func (d *stubSeekDecoder) Length() int64     { return d.length }
func (d *stubSeekDecoder) SampleRate() int   { return d.sampleRate }
func (d *stubSeekDecoder) ChannelCount() int { return d.channels }

func TestClampSeekByteOffsetClampsAndAligns(t *testing.T) {
	assert.Equal(t, int64(8), clampSeekByteOffset(3900*time.Millisecond, 10, 10, 4))
	assert.Equal(t, int64(0), clampSeekByteOffset(-1*time.Second, 10, 100, 4))
	assert.Equal(t, int64(22), clampSeekByteOffset(time.Second, 23, 100, 2))
}

func TestPauseSetsPausedWithoutToggle(t *testing.T) {
	p := &Player{}
	p.Pause()
	assert.True(t, p.Paused())
	p.Pause()
	assert.True(t, p.Paused())
	p.TogglePause()
	assert.False(t, p.Paused())
}

func TestSeekToClampsAndAlignsToFrameBoundary(t *testing.T) {
	dec := &stubSeekDecoder{
		length:     41,
		sampleRate: 44100,
		channels:   2,
	}
	counter := &countingReader{}
	p := &Player{
		decoder:     dec,
		counter:     counter,
		bytesPerSec: 10,
	}

	require.NoError(t, p.SeekTo(3900*time.Millisecond, false))
	assert.Equal(t, int64(36), dec.pos)
	assert.Equal(t, int64(36), counter.Pos())
	assert.True(t, p.paused)
	assert.Equal(t, 3600*time.Millisecond, p.Position())
}

func TestSeekMovesRelative(t *testing.T) {
	dec := &stubSeekDecoder{length: 1000, channels: 1}
	counter := &countingReader{}
	counter.SetPos(100)
	p := &Player{decoder: dec, counter: counter, bytesPerSec: 100}

	require.NoError(t, p.Seek(2*time.Second))
	assert.Equal(t, int64(300), dec.pos)
	assert.False(t, p.Paused())

	require.NoError(t, p.Seek(-10*time.Second))
	assert.Equal(t, int64(0), dec.pos)
}

func TestSeekToReportsDecoderError(t *testing.T) {
	dec := &stubSeekDecoder{length: 100, channels: 2, seekErr: io.ErrClosedPipe}
	counter := &countingReader{}
	counter.SetPos(40)
	p := &Player{decoder: dec, counter: counter, bytesPerSec: 10}

	err := p.SeekTo(time.Second, true)
	require.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, int64(40), counter.Pos())
}

func TestSetVolumeClamps(t *testing.T) {
	p := &Player{}
	p.SetVolume(1.7)
	assert.Equal(t, 1.0, p.Volume())
	p.AdjustVolume(-0.25)
	assert.Equal(t, 0.75, p.Volume())
	p.SetVolume(-3)
	assert.Zero(t, p.Volume())
}

func TestPlayerCloseRunsCleanupOnce(t *testing.T) {
	calls := 0
	p := &Player{
		stopMon: make(chan struct{}),
		cleanup: func() {
			calls++
		},
	}

	p.Close()
	p.Close()

	assert.Equal(t, 1, calls)
}
