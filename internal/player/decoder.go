package player

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// audioDecoder is implemented by all format-specific decoders. Read yields
// interleaved s16le PCM; offsets and Length are in output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder detects format by file extension and returns the appropriate decoder.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".aif", ".aiff":
		return newAIFFDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// resolveSeek turns a Seek request into a clamped absolute byte offset
// aligned to frameSize.
func resolveSeek(offset int64, whence int, pos, length int64, frameSize int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = pos + offset
	case io.SeekEnd:
		newPos = length + offset
	default:
		return pos, fmt.Errorf("invalid seek whence: %d", whence)
	}
	newPos = min(max(newPos, 0), length)
	return newPos - newPos%int64(frameSize), nil
}

func putClamped(dst []byte, sample int) {
	sample = min(max(sample, -32768), 32767)
	binary.LittleEndian.PutUint16(dst, uint16(int16(sample)))
}

// pending holds converted PCM that did not fit the caller's buffer.
type pending struct {
	buf []byte
	pos int64
}

func (p *pending) drain(dst []byte) (int, bool) {
	if len(p.buf) == 0 {
		return 0, false
	}
	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	p.pos += int64(n)
	return n, true
}

func (p *pending) deliver(dst, raw []byte) int {
	n := copy(dst, raw)
	if n < len(raw) {
		p.buf = append(p.buf[:0], raw[n:]...)
	}
	p.pos += int64(n)
	return n
}

// --- MP3 decoder ---

// mp3Decoder trims the encoder delay and padding advertised in a LAME
// header so tracks start on their first real sample.
type mp3Decoder struct {
	dec       *mp3.Decoder
	trimStart int64 // bytes
	length    int64
	pos       int64
}

const mp3FrameSize = 4

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	startSamples, endSamples, err := readMP3GaplessTrim(f)
	if err != nil {
		return nil, fmt.Errorf("reading mp3 gapless info: %w", err)
	}

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	d := &mp3Decoder{
		dec:       dec,
		trimStart: startSamples * mp3FrameSize,
		length:    dec.Length() - (startSamples+endSamples)*mp3FrameSize,
	}
	if d.length <= 0 {
		d.trimStart = 0
		d.length = dec.Length()
	}
	if d.trimStart > 0 {
		if _, err := dec.Seek(d.trimStart, io.SeekStart); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) {
	remaining := d.length - d.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := d.dec.Read(p)
	d.pos += int64(n)
	return n, err
}

func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	newPos, err := resolveSeek(offset, whence, d.pos, d.length, mp3FrameSize)
	if err != nil {
		return d.pos, err
	}
	if _, err := d.dec.Seek(d.trimStart+newPos, io.SeekStart); err != nil {
		return d.pos, err
	}
	d.pos = newPos
	return newPos, nil
}

func (d *mp3Decoder) Length() int64     { return d.length }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV decoder ---

type wavDecoder struct {
	file         *os.File
	out          pending
	totalBytes   int64
	pcmStart     int64 // byte offset in file where PCM data begins
	sampleRate   int
	channels     int
	srcBitDepth  int
	srcFrameSize int64 // bytes per sample frame in source format
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	// FwdToPCM positions the reader at the start of PCM data
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedLayout, bitDepth)
	}
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedLayout, channels)
	}
	srcFrameSize := int64(channels) * int64(bitDepth) / 8

	totalFrames := dec.PCMLen() / srcFrameSize
	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	return &wavDecoder{
		file:         f,
		sampleRate:   int(dec.SampleRate),
		channels:     channels,
		srcBitDepth:  bitDepth,
		srcFrameSize: srcFrameSize,
		totalBytes:   totalFrames * int64(channels) * 2,
		pcmStart:     pcmStart,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if n, ok := d.out.drain(p); ok {
		return n, nil
	}
	if d.out.pos >= d.totalBytes {
		return 0, io.EOF
	}

	srcBytesPerSample := d.srcBitDepth / 8
	numOutputSamples := max(len(p)/2, 1)
	numOutputSamples = min(numOutputSamples, int(d.totalBytes-d.out.pos)/2)
	srcBytes := make([]byte, numOutputSamples*srcBytesPerSample)
	n, err := io.ReadFull(d.file, srcBytes)

	samplesRead := n / srcBytesPerSample
	if samplesRead == 0 {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, samplesRead*2)
	for i := range samplesRead {
		off := i * srcBytesPerSample
		var sample int
		switch d.srcBitDepth {
		case 8:
			// 8-bit WAV is unsigned
			sample = (int(srcBytes[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(srcBytes[off:])))
		case 24:
			s := int32(srcBytes[off]) | int32(srcBytes[off+1])<<8 | int32(srcBytes[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF // sign extend
			}
			sample = int(s >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(srcBytes[off:])) >> 16)
		}
		putClamped(raw[i*2:], sample)
	}

	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	return d.out.deliver(p, raw), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	outFrame := d.channels * 2
	newPos, err := resolveSeek(offset, whence, d.out.pos, d.totalBytes, outFrame)
	if err != nil {
		return d.out.pos, err
	}

	srcBytePos := newPos / int64(outFrame) * d.srcFrameSize
	if _, err := d.file.Seek(d.pcmStart+srcBytePos, io.SeekStart); err != nil {
		return d.out.pos, err
	}

	d.out = pending{pos: newPos}
	return newPos, nil
}

func (d *wavDecoder) Length() int64     { return d.totalBytes }
func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- AIFF decoder ---

// aiffDecoder converts the whole file to s16le up front; go-audio's AIFF
// decoder cannot seek within the sound data.
type aiffDecoder struct {
	*bytes.Reader
	sampleRate int
	channels   int
}

func newAIFFDecoder(f *os.File) (*aiffDecoder, error) {
	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrInvalidAIFF
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: AIFF without channels", ErrUnsupportedLayout)
	}
	shift := int(dec.BitDepth) - 16

	var out []byte
	buf := &goaudio.IntBuffer{Data: make([]int, 4096*format.NumChannels), Format: format}
	for {
		n, err := dec.PCMBuffer(buf)
		for _, s := range buf.Data[:n] {
			if shift > 0 {
				s >>= shift
			} else if shift < 0 {
				s <<= -shift
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(min(max(s, -32768), 32767))))
		}
		if n == 0 || err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding AIFF: %w", err)
		}
	}
	frame := 2 * format.NumChannels
	out = out[:len(out)-len(out)%frame]

	return &aiffDecoder{
		Reader:     bytes.NewReader(out),
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
	}, nil
}

func (d *aiffDecoder) Seek(offset int64, whence int) (int64, error) {
	newPos, err := resolveSeek(offset, whence, d.Size()-int64(d.Len()), d.Size(), 2*d.channels)
	if err != nil {
		return 0, err
	}
	return d.Reader.Seek(newPos, io.SeekStart)
}

func (d *aiffDecoder) Length() int64     { return d.Size() }
func (d *aiffDecoder) SampleRate() int   { return d.sampleRate }
func (d *aiffDecoder) ChannelCount() int { return d.channels }

// --- FLAC decoder ---

type flacDecoder struct {
	stream     *flac.Stream
	out        pending
	totalBytes int64
	sampleRate int
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bps:        int(info.BitsPerSample),
		totalBytes: int64(info.NSamples) * int64(channels) * 2,
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.out.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := range nSamples {
		for ch := range d.channels {
			sample := int(frame.Subframes[ch].Samples[i])
			switch {
			case d.bps > 16:
				sample >>= (d.bps - 16)
			case d.bps < 16:
				sample <<= (16 - d.bps)
			}
			putClamped(raw[(i*d.channels+ch)*2:], sample)
		}
	}
	return d.out.deliver(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	bytesPerFrame := d.channels * 2
	newPos, err := resolveSeek(offset, whence, d.out.pos, d.totalBytes, bytesPerFrame)
	if err != nil {
		return d.out.pos, err
	}
	if _, err := d.stream.Seek(uint64(newPos / int64(bytesPerFrame))); err != nil {
		return d.out.pos, err
	}
	d.out = pending{pos: newPos}
	return newPos, nil
}

func (d *flacDecoder) Length() int64     { return d.totalBytes }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis decoder ---

type oggDecoder struct {
	reader     *oggvorbis.Reader
	out        pending
	samples    []float32
	totalBytes int64
	sampleRate int
	channels   int
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		reader:     reader,
		sampleRate: reader.SampleRate(),
		channels:   channels,
		totalBytes: reader.Length() * int64(channels) * 2,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.out.drain(p); ok {
		return n, nil
	}

	want := max(len(p)/2, d.channels)
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	samples := d.samples[:want]
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		s = min(max(s, -1), 1)
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}
	return d.out.deliver(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	bytesPerFrame := d.channels * 2
	newPos, err := resolveSeek(offset, whence, d.out.pos, d.totalBytes, bytesPerFrame)
	if err != nil {
		return d.out.pos, err
	}
	if err := d.reader.SetPosition(newPos / int64(bytesPerFrame)); err != nil {
		return d.out.pos, err
	}
	d.out = pending{pos: newPos}
	return newPos, nil
}

func (d *oggDecoder) Length() int64     { return d.totalBytes }
func (d *oggDecoder) SampleRate() int   { return d.sampleRate }
func (d *oggDecoder) ChannelCount() int { return d.channels }
