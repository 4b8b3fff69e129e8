package chart

// SampleSource supplies byte-quantized sample frames.
type SampleSource interface {
	// TimeDomainFrame fills dst with amplitude samples centered at 128.
	TimeDomainFrame(dst []byte)
	// FrequencyFrame fills dst with magnitude samples, one per bin.
	FrequencyFrame(dst []byte)
	// SampleRate is the rate of the analysed signal in Hz.
	SampleRate() float64
	// FrameResolution is the number of samples per frame. Charts read it only
	// when they reset.
	FrameResolution() int
}

// GridConfig sizes the waveform chart's scrolling grid. It is read on reset.
type GridConfig interface {
	// DrawLines is the number of stacked trace rows.
	DrawLines() int
	// DrawSamples is the number of frames drawn across the whole grid.
	DrawSamples() int
}

// Grid is a fixed GridConfig.
type Grid struct {
	Lines   int
	Samples int
}

func (g Grid) DrawLines() int   { return g.Lines }
func (g Grid) DrawSamples() int { return g.Samples }
