package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/chart"
	"github.com/olivier-w/wavescope/internal/config"
	"github.com/olivier-w/wavescope/internal/player"
	"github.com/olivier-w/wavescope/internal/surface"
)

type snapshotGrid struct {
	lines, samples int
}

func (g snapshotGrid) DrawLines() int   { return g.lines }
func (g snapshotGrid) DrawSamples() int { return g.samples }

// feeder pushes one frame interval of audio into the graph's analysers and
// reports false once the input is exhausted.
type feeder func(dt time.Duration) (bool, error)

// pcmFeeder reads dt worth of stereo output from r.
func pcmFeeder(r io.Reader, sampleRate float64) feeder {
	var buf []byte
	return func(dt time.Duration) (bool, error) {
		n := int(sampleRate*dt.Seconds()) * 4
		if cap(buf) < n {
			buf = make([]byte, n)
		}
		_, err := io.ReadFull(r, buf[:n])
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return false, nil
		case err != nil:
			return false, err
		}
		return true, nil
	}
}

func toneFeeder(tone *audio.Tone, graph *audio.Graph) feeder {
	return func(dt time.Duration) (bool, error) {
		tone.Advance(dt, graph)
		return true, nil
	}
}

// renderSnapshot draws up to cfg.SnapshotFrames frames of both charts and
// writes the last one as a PNG, waveform above spectrum. It returns the
// number of frames drawn.
func renderSnapshot(cfg config.Config, graph *audio.Graph, feed feeder, w io.Writer) (int, error) {
	if err := graph.SetFFTSize(cfg.FFTSize); err != nil {
		return 0, err
	}
	top := surface.NewRaster(cfg.SnapshotWidth, cfg.SnapshotHeight/2)
	bottom := surface.NewRaster(cfg.SnapshotWidth, cfg.SnapshotHeight-cfg.SnapshotHeight/2)

	loop := chart.NewFrameLoop()
	wave := chart.NewWaveform(loop, graph.Analyser(), top, snapshotGrid{cfg.DrawLines, cfg.DrawSamples})
	bars := chart.NewFrequencyBars(loop, graph.Analyser(), bottom, chart.NewPointerHub())
	defer wave.Stop()
	defer bars.Stop()

	drawn := 0
	for drawn < cfg.SnapshotFrames {
		more, err := feed(cfg.FrameInterval())
		if err != nil {
			return drawn, err
		}
		if !more {
			break
		}
		// Start draws the first frame itself, so it waits for audio.
		if drawn == 0 {
			wave.Start()
			bars.Start()
		} else {
			loop.Fire()
		}
		drawn++
	}
	if drawn == 0 {
		return 0, errors.New("no audio to draw")
	}

	return drawn, surface.Stack(top, bottom).WritePNG(w)
}

// runSnapshot renders path, or the tone when path is empty, to cfg.Snapshot.
func runSnapshot(cfg config.Config, path string, logger *slog.Logger) error {
	graph := audio.NewGraph(player.OutputSampleRate, logger)

	var feed feeder
	if path == "" {
		feed = toneFeeder(audio.NewTone(graph.SampleRate(), cfg.ToneFrequency, cfg.ToneFrequency, time.Second), graph)
	} else {
		src, err := player.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		r, err := graph.Wrap(src, src.Channels())
		if err != nil {
			return err
		}
		feed = pcmFeeder(r, graph.SampleRate())
	}

	f, err := os.Create(cfg.Snapshot)
	if err != nil {
		return err
	}
	drawn, err := renderSnapshot(cfg, graph, feed, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("snapshot written", "path", cfg.Snapshot, "frames", drawn, "input", path)
	return nil
}
