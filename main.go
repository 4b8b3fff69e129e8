package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/config"
	"github.com/olivier-w/wavescope/internal/logger"
	"github.com/olivier-w/wavescope/internal/player"
	"github.com/olivier-w/wavescope/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Defaults()
	var logLevel string

	cmd := &cobra.Command{
		Use:   "wavescope [file | playlist]",
		Short: "Terminal oscilloscope and spectrum analyser",
		Long: `wavescope plays an audio file or playlist and draws its waveform and
frequency spectrum in the terminal. Without a file it opens a browser for the
current directory; --tone draws a synthetic sweep instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("log-level") {
				level, ok := logger.ParseLevel(logLevel)
				if !ok {
					return &config.ValidationError{Field: "log-level", Value: logLevel, Message: "must be debug, info, warn or error"}
				}
				cfg.LogLevel = level
			}
			return run(cfg, args)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.FFTSize, "fft-size", cfg.FFTSize, "analyser FFT size, a power of two")
	f.IntVar(&cfg.DrawLines, "lines", cfg.DrawLines, "waveform rows")
	f.IntVar(&cfg.DrawSamples, "samples", cfg.DrawSamples, "frames drawn across all waveform rows")
	f.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "redraws per second")
	f.StringVar(&logLevel, "log-level", cfg.LogLevel.String(), "debug, info, warn or error")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `"text" or "json"`)
	f.StringVar(&cfg.LogFile, "log-file", "", "write logs to this file")
	f.BoolVar(&cfg.Tone, "tone", false, "draw a synthetic sweep instead of a file")
	f.Float64Var(&cfg.ToneFrequency, "tone-frequency", cfg.ToneFrequency, "lowest tone frequency in Hz")
	f.StringVarP(&cfg.Snapshot, "snapshot", "o", "", "render to this PNG file instead of the terminal")
	f.IntVar(&cfg.SnapshotFrames, "frames", cfg.SnapshotFrames, "frames to render in snapshot mode")
	f.IntVar(&cfg.SnapshotWidth, "width", cfg.SnapshotWidth, "snapshot width in pixels")
	f.IntVar(&cfg.SnapshotHeight, "height", cfg.SnapshotHeight, "snapshot height in pixels")
	return cmd
}

// openLog returns the log destination and its closer. The terminal belongs
// to the TUI, so interactive logs go to a file or nowhere; snapshot mode
// logs to stderr by default.
func openLog(cfg config.Config) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "wavescope")
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.Snapshot != "" {
		return os.Stderr, func() {}, nil
	}
	return nil, func() {}, nil
}

func run(cfg config.Config, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	w, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.NewLogger(cfg.Logger(), w)

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	if cfg.Snapshot != "" {
		if arg == "" && !cfg.Tone {
			return fmt.Errorf("snapshot needs a file or --tone")
		}
		return runSnapshot(cfg, arg, log)
	}

	if arg == "" && !cfg.Tone {
		picked, ok, err := browse(".")
		if err != nil || !ok {
			return err
		}
		arg = picked
	}

	graph := audio.NewGraph(player.OutputSampleRate, log)
	opts := ui.Options{Config: cfg, Graph: graph, Logger: log}
	if arg != "" {
		in, err := resolveInput(arg)
		if err != nil {
			return err
		}
		pb, err := openPlayback(in, graph, log)
		if err != nil {
			return err
		}
		defer pb.player.Close()
		opts.Player = pb.player
		opts.Metadata = pb.metadata
		opts.Queue = pb.queue
	}

	program := tea.NewProgram(ui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// browse runs the file browser and returns the chosen path. ok is false when
// the user cancelled.
func browse(dir string) (string, bool, error) {
	browser := ui.NewBrowser(dir)
	if browser.HasError() {
		return "", false, browser.Error()
	}
	finalModel, err := tea.NewProgram(browser, tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	bm, ok := finalModel.(ui.BrowserModel)
	if !ok {
		return "", false, fmt.Errorf("unexpected model type from browser")
	}
	result := bm.Result()
	if result.Cancelled {
		return "", false, nil
	}
	return result.Path, true, nil
}
