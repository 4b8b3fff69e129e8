package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/resample"
)

// OutputSampleRate is the rate of the audio device and of the graph.
const OutputSampleRate = 44100

// resampledDecoder presents a decoder at OutputSampleRate, keeping its
// channel count. Decoders already at that rate pass through untouched.
type resampledDecoder struct {
	src      audioDecoder
	channels int
	srcRate  int

	rs     []*resample.Resampler
	length int64
	out    pending

	in   []byte
	work [][]float64
	eof  bool
}

func newResampledDecoder(src audioDecoder) (audioDecoder, error) {
	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedLayout, rate)
	}
	if rate == OutputSampleRate {
		return src, nil
	}

	channels := src.ChannelCount()
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}
	d := &resampledDecoder{
		src:      src,
		channels: channels,
		srcRate:  rate,
		work:     make([][]float64, channels),
	}
	for range channels {
		r, err := resample.NewForRates(float64(rate), OutputSampleRate, resample.WithQuality(resample.QualityFast))
		if err != nil {
			return nil, fmt.Errorf("resampler %d Hz: %w", rate, err)
		}
		d.rs = append(d.rs, r)
	}

	frameSize := int64(channels * 2)
	srcFrames := src.Length() / frameSize
	d.length = srcFrames * OutputSampleRate / int64(rate) * frameSize
	return d, nil
}

func (d *resampledDecoder) frameSize() int { return d.channels * 2 }

func (d *resampledDecoder) Read(p []byte) (int, error) {
	for {
		if n, ok := d.out.drain(p); ok {
			return n, nil
		}
		if d.eof || d.out.pos >= d.length {
			return 0, io.EOF
		}
		if err := d.fill(); err != nil && err != io.EOF {
			return 0, err
		}
	}
}

// fill resamples one chunk of source frames into d.out.
func (d *resampledDecoder) fill() error {
	const chunkFrames = 2048

	fs := d.frameSize()
	if cap(d.in) < chunkFrames*fs {
		d.in = make([]byte, chunkFrames*fs)
	}
	n, err := io.ReadFull(d.src, d.in[:chunkFrames*fs])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		d.eof = true
		err = io.EOF
	}
	frames := n / fs
	if frames == 0 {
		return err
	}

	for ch := range d.channels {
		w := d.work[ch][:0]
		for i := range frames {
			off := i*fs + ch*2
			w = append(w, float64(int16(binary.LittleEndian.Uint16(d.in[off:])))/32768)
		}
		d.work[ch] = d.rs[ch].Process(w)
	}

	outFrames := len(d.work[0])
	for _, w := range d.work[1:] {
		outFrames = min(outFrames, len(w))
	}
	if remaining := int((d.length - d.out.pos) / int64(fs)); outFrames > remaining {
		outFrames = remaining
	}

	raw := d.out.buf[:0]
	for i := range outFrames {
		for ch := range d.channels {
			v := math.Round(d.work[ch][i] * 32768)
			raw = binary.LittleEndian.AppendUint16(raw, uint16(int16(min(max(v, -32768), 32767))))
		}
	}
	d.out.buf = raw
	return err
}

func (d *resampledDecoder) Seek(offset int64, whence int) (int64, error) {
	fs := d.frameSize()
	newPos, err := resolveSeek(offset, whence, d.out.pos, d.length, fs)
	if err != nil {
		return d.out.pos, err
	}

	srcFrame := newPos / int64(fs) * int64(d.srcRate) / OutputSampleRate
	if _, err := d.src.Seek(srcFrame*int64(fs), io.SeekStart); err != nil {
		return d.out.pos, err
	}
	for _, r := range d.rs {
		r.Reset()
	}
	d.out = pending{pos: newPos}
	d.eof = false
	return newPos, nil
}

func (d *resampledDecoder) Length() int64     { return d.length }
func (d *resampledDecoder) SampleRate() int   { return OutputSampleRate }
func (d *resampledDecoder) ChannelCount() int { return d.channels }
