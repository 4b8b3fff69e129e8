package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
)

// mp3DecoderDelay is the synthesis filterbank delay of a layer III decoder,
// in samples.
const mp3DecoderDelay = 529

var errNotLayer3 = errors.New("not an MPEG layer III frame")

// readMP3GaplessTrim returns the samples to drop from the start and end of
// an MP3 stream, read from the LAME extension of its Xing/Info frame. Files
// without one trim nothing. The reader position is restored.
func readMP3GaplessTrim(f io.ReadSeeker) (start, end int64, err error) {
	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if _, serr := f.Seek(pos, io.SeekStart); serr != nil && err == nil {
			err = serr
		}
	}()

	frame, err := firstMP3FrameOffset(f)
	if err != nil {
		return 0, 0, nil
	}
	if _, err := f.Seek(frame, io.SeekStart); err != nil {
		return 0, 0, err
	}

	var header [4]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return 0, 0, nil
	}
	skip, err := mp3XingOffset(header[:])
	if err != nil {
		return 0, 0, nil
	}
	if _, err := f.Seek(frame+int64(skip), io.SeekStart); err != nil {
		return 0, 0, err
	}

	buf := make([]byte, 256)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, 0, err
	}

	start, end, _ = parseLAMEGapless(buf[:n])
	return start, end, nil
}

// firstMP3FrameOffset skips an ID3v2 tag if present.
func firstMP3FrameOffset(f io.ReadSeeker) (int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	var h [10]byte
	if _, err := io.ReadFull(f, h[:]); err != nil {
		return 0, fs.ErrNotExist
	}
	if !bytes.Equal(h[:3], []byte("ID3")) {
		return 0, nil
	}

	size := int64(synchsafe(h[6:10])) + 10
	if h[5]&0x10 != 0 { // footer present
		size += 10
	}
	return size, nil
}

func synchsafe(b []byte) int {
	return int(b[0]&0x7f)<<21 | int(b[1]&0x7f)<<14 | int(b[2]&0x7f)<<7 | int(b[3]&0x7f)
}

// mp3XingOffset returns where the Xing/Info tag starts relative to the frame
// header: after the header, the optional CRC and the side information.
func mp3XingOffset(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	h := binary.BigEndian.Uint32(b)
	if h>>21 != 0x7ff {
		return 0, errNotLayer3
	}

	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	if layer != 0x1 || version == 0x1 {
		return 0, errNotLayer3
	}
	mpeg1 := version == 0x3
	mono := (h>>6)&0x3 == 0x3

	offset := 4
	if (h>>16)&0x1 == 0 {
		offset += 2
	}
	switch {
	case mpeg1 && mono:
		offset += 17
	case mpeg1:
		offset += 32
	case mono:
		offset += 9
	default:
		offset += 17
	}
	return offset, nil
}

// parseLAMEGapless reads encoder delay and padding from a Xing/Info tag.
func parseLAMEGapless(b []byte) (start, end int64, ok bool) {
	if len(b) < 8 {
		return 0, 0, false
	}
	if tag := string(b[:4]); tag != "Xing" && tag != "Info" {
		return 0, 0, false
	}

	flags := binary.BigEndian.Uint32(b[4:8])
	offset := 8
	for _, field := range []struct {
		bit  uint32
		size int
	}{{0x1, 4}, {0x2, 4}, {0x4, 100}, {0x8, 4}} {
		if flags&field.bit != 0 {
			offset += field.size
		}
	}
	// The LAME extension stores delay and padding as two 12-bit values.
	if len(b) < offset+24 {
		return 0, 0, false
	}
	dp := b[offset+21 : offset+24]
	delay := int64(dp[0])<<4 | int64(dp[1]>>4)
	padding := int64(dp[1]&0x0f)<<8 | int64(dp[2])
	if delay == 0 && padding == 0 {
		return 0, 0, false
	}

	return delay + mp3DecoderDelay, max(padding-mp3DecoderDelay, 0), true
}
