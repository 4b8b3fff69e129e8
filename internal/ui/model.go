package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/config"
	"github.com/olivier-w/wavescope/internal/player"
	"github.com/olivier-w/wavescope/internal/queue"
	"github.com/olivier-w/wavescope/internal/util"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05

	// toneSweep is the ratio between the highest and lowest tone frequency.
	toneSweep  = 4
	tonePeriod = 10 * time.Second

	panelWidth    = 28
	minPanelWidth = 72
	statusTTL     = 5 * time.Second
)

// Options configures a Model.
type Options struct {
	Config config.Config
	Graph  *audio.Graph
	// Player is the first track, already playing. Nil starts without a file.
	Player   *player.Player
	Metadata player.Metadata
	// Queue holds the remaining playlist, if one was opened.
	Queue  *queue.Queue
	Logger *slog.Logger
}

// Model is the Bubbletea model for the wavescope TUI: a waveform pane above
// a spectrum pane, a settings panel beside them and status below.
type Model struct {
	cfg      config.Config
	graph    *audio.Graph
	scope    *Scope
	settings *Settings
	meter    *levelMeter
	tone     *audio.Tone
	toneOn   bool
	zones    *zone.Manager
	pointer  *spectrumPointer
	help     help.Model
	progress progress.Model

	player     *player.Player
	metadata   player.Metadata
	queue      *queue.Queue
	repeatMode RepeatMode

	elapsed   time.Duration
	duration  time.Duration
	volume    float64
	paused    bool
	lastFrame time.Time

	width, height int
	status        string
	statusErr     bool
	statusTime    time.Time
	quitting      bool

	logger *slog.Logger
}

// New creates a Model. Charts start right away when a player or the tone is
// given.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := opts.Config
	graph := opts.Graph

	scope := NewScope(graph, cfg.DrawLines, cfg.DrawSamples, logger)
	if err := graph.SetFFTSize(cfg.FFTSize); err != nil {
		logger.Warn("fft size rejected", "size", cfg.FFTSize, "error", err)
	}
	zones := zone.New()

	m := Model{
		cfg:      cfg,
		graph:    graph,
		scope:    scope,
		settings: newSettings(scope, graph),
		meter:    newLevelMeter(cfg.FrameRate),
		tone:     audio.NewTone(graph.SampleRate(), cfg.ToneFrequency, cfg.ToneFrequency*toneSweep, tonePeriod),
		zones:    zones,
		pointer:  newSpectrumPointer(zones, scope.Pointer()),
		help:     help.New(),
		progress: newProgressBar(),
		player:   opts.Player,
		metadata: opts.Metadata,
		queue:    opts.Queue,
		logger:   logger,
	}
	if q := m.queue; q != nil {
		q.SetState(queue.Playing)
	}
	if m.player != nil {
		m.duration = m.player.Duration()
		m.volume = m.player.Volume()
		m.paused = m.player.Paused()
		if !m.paused {
			scope.Start()
		}
	}
	if cfg.Tone {
		m.startTone()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		frameCmd(m.cfg.FrameInterval()),
		tea.SetWindowTitle(windowTitle(m.sourceTitle(), m.paused)),
	}
	if m.player != nil {
		cmds = append(cmds, checkDone(m.player))
	}
	return tea.Batch(cmds...)
}

func checkDone(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{player: p}
	}
}

// openTrack starts the queue entry at index on a fresh player.
func openTrack(graph *audio.Graph, path string, index int, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		p, err := player.New(path, graph, logger)
		if err != nil {
			return trackOpenedMsg{index: index, err: err}
		}
		return trackOpenedMsg{player: p, metadata: player.ReadMetadata(path), index: index}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.pointer.Handle(msg)
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		dt := m.cfg.FrameInterval()
		if !m.lastFrame.IsZero() {
			dt = min(max(now.Sub(m.lastFrame), 0), 4*dt)
		}
		m.lastFrame = now

		if m.toneOn {
			m.tone.Advance(dt, m.graph)
		}
		m.scope.Fire()
		m.meter.Update(m.graph.Analyser(), m.scope.Active())
		return m, frameCmd(m.cfg.FrameInterval())

	case tickMsg:
		if m.player != nil {
			m.elapsed = m.player.Position()
			m.volume = m.player.Volume()
			m.paused = m.player.Paused()
		}
		if m.status != "" && time.Since(m.statusTime) > statusTTL {
			m.status = ""
		}
		return m, tickCmd()

	case playbackEndedMsg:
		if msg.player != m.player {
			return m, nil
		}
		return m.trackEnded()

	case trackOpenedMsg:
		return m.trackOpened(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		m.scope.Stop()
		m.player.Close()
		m.zones.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	switch {
	case key.Matches(msg, keys.Pause):
		if m.player == nil {
			return m, nil
		}
		if m.toneOn {
			m.stopTone()
		}
		m.player.TogglePause()
		m.paused = m.player.Paused()
		if m.paused {
			m.scope.Stop()
		} else {
			m.scope.Start()
		}
		return m, tea.SetWindowTitle(windowTitle(m.sourceTitle(), m.paused))

	case key.Matches(msg, keys.Tone):
		if m.toneOn {
			m.stopTone()
		} else {
			m.startTone()
		}
		return m, tea.SetWindowTitle(windowTitle(m.sourceTitle(), m.paused))

	case key.Matches(msg, keys.SeekBack):
		m.seek(-seekStep)
	case key.Matches(msg, keys.SeekForward):
		m.seek(seekStep)
	case key.Matches(msg, keys.VolumeUp):
		m.adjustVolume(volumeStep)
	case key.Matches(msg, keys.VolumeDown):
		m.adjustVolume(-volumeStep)

	case key.Matches(msg, keys.Focus):
		m.settings.Move(1)
	case key.Matches(msg, keys.FocusBack):
		m.settings.Move(-1)
	case key.Matches(msg, keys.Increase):
		m.setErr(m.settings.Adjust(1))
	case key.Matches(msg, keys.Decrease):
		m.setErr(m.settings.Adjust(-1))

	case key.Matches(msg, keys.LogScale):
		m.scope.SetLogScale(!m.scope.FrequencyOptions().LogScale)
	case key.Matches(msg, keys.ZoomIn):
		m.scope.ZoomIn()
	case key.Matches(msg, keys.ZoomOut):
		m.scope.ZoomOut()
	case key.Matches(msg, keys.ZoomReset):
		m.scope.ZoomReset()
	case key.Matches(msg, keys.Solfege):
		m.scope.ToggleSolfege()
	case key.Matches(msg, keys.Labels):
		m.scope.ToggleLabels()
	case key.Matches(msg, keys.Filter):
		next := cycleFilter(m.scope.Filtering(), m.graph.FilterParams().Type, 1)
		m.setErr(m.scope.SelectFilter(next))

	case key.Matches(msg, keys.Repeat):
		m.repeatMode = m.repeatMode.Next(m.queue != nil)
	case key.Matches(msg, keys.Next):
		if m.queue != nil && m.queue.Advance() {
			return m.startCurrent()
		}
	case key.Matches(msg, keys.Prev):
		if m.queue != nil && m.queue.Previous() {
			return m.startCurrent()
		}

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return m, nil
}

func (m *Model) seek(d time.Duration) {
	if m.player == nil {
		return
	}
	m.setErr(m.player.Seek(d))
	m.elapsed = m.player.Position()
}

func (m *Model) adjustVolume(delta float64) {
	if m.player == nil {
		return
	}
	m.player.AdjustVolume(delta)
	m.volume = m.player.Volume()
}

func (m *Model) startTone() {
	if m.player != nil && !m.player.Paused() {
		m.player.Pause()
		m.paused = true
	}
	m.tone.Reset()
	m.graph.Analyser().Clear()
	m.graph.Original().Clear()
	m.toneOn = true
	m.scope.Start()
}

func (m *Model) stopTone() {
	m.toneOn = false
	m.scope.Stop()
}

// trackEnded stops the charts at the end of a file, or moves on per the
// repeat mode and playlist.
func (m Model) trackEnded() (Model, tea.Cmd) {
	if m.repeatMode == RepeatOne {
		if err := m.player.Restart(); err != nil {
			m.setErr(err)
		} else {
			m.elapsed = 0
			return m, checkDone(m.player)
		}
	}

	if m.queue != nil {
		m.queue.SetState(queue.Done)
		if m.queue.Advance() {
			return m.startCurrent()
		}
		if m.repeatMode == RepeatAll {
			m.queue.Rewind()
			return m.startCurrent()
		}
	}

	m.elapsed = m.duration
	m.paused = true
	if !m.toneOn {
		m.scope.Stop()
	}
	m.setStatus("playback ended")
	return m, tea.SetWindowTitle(windowTitle(m.sourceTitle(), true))
}

// startCurrent closes the current player and opens the queue's current
// track in the background.
func (m Model) startCurrent() (Model, tea.Cmd) {
	t := m.queue.Current()
	if t == nil {
		return m, nil
	}
	m.player.Close()
	m.player = nil
	m.scope.Stop()
	m.elapsed, m.duration = 0, 0
	m.setStatus("opening " + filepath.Base(t.Path))
	return m, openTrack(m.graph, t.Path, m.queue.CurrentIndex(), m.logger)
}

func (m Model) trackOpened(msg trackOpenedMsg) (Model, tea.Cmd) {
	if m.queue == nil || msg.index != m.queue.CurrentIndex() || m.quitting {
		msg.player.Close()
		return m, nil
	}
	if msg.err != nil {
		m.logger.Warn("track failed", "index", msg.index, "error", msg.err)
		m.queue.SetState(queue.Failed)
		m.setErr(msg.err)
		if m.queue.Advance() {
			return m.startCurrent()
		}
		return m, nil
	}

	m.queue.SetState(queue.Playing)
	m.player = msg.player
	m.metadata = msg.metadata
	m.duration = m.player.Duration()
	m.volume = m.player.Volume()
	m.paused = false
	m.elapsed = 0
	m.status = ""
	if m.toneOn {
		m.toneOn = false
	}
	m.scope.Start()
	return m, tea.Batch(checkDone(m.player), tea.SetWindowTitle(windowTitle(m.sourceTitle(), false)))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m *Model) setErr(err error) {
	if err == nil {
		return
	}
	m.status = err.Error()
	m.statusErr = true
	m.statusTime = time.Now()
}

func (m Model) showPanel() bool {
	return m.width >= minPanelWidth
}

// chrome is the number of rows outside the two panes.
func (m Model) chrome() int {
	helpRows := 1
	if m.help.ShowAll {
		helpRows = 0
		for _, col := range keys.FullHelp() {
			helpRows = max(helpRows, len(col))
		}
	}
	// header, blank, progress, status, message, blank, help.
	return 6 + helpRows
}

// layout sizes the panes from the window.
func (m *Model) layout() {
	cols := m.width - 2
	if m.showPanel() {
		cols -= panelWidth + 1
	}
	rows := max(m.height-m.chrome(), 4)
	waveRows := rows / 2
	m.scope.Resize(max(cols, 10), waveRows, rows-waveRows)
	m.help.Width = m.width - 2
	m.progress.Width = max(cols-16, 10)
}

func (m Model) sourceTitle() string {
	switch {
	case m.toneOn:
		return "tone"
	case m.player != nil:
		return m.metadata.String()
	}
	return "no input"
}

func (m Model) sourceLine() string {
	if m.toneOn {
		return "tone " + util.FormatFrequency(m.tone.Frequency())
	}
	if m.player == nil {
		return "no input"
	}
	s := m.metadata.String()
	if m.queue != nil {
		s += fmt.Sprintf("  (%d/%d)", m.queue.CurrentIndex()+1, m.queue.Len())
	}
	return s
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("wavescope") + "  " + titleStyle.Render(m.sourceLine())
	if m.metadata.Album != "" && !m.toneOn && m.player != nil {
		header += "  " + artistStyle.Render(m.metadata.Album)
	}

	panes := lipgloss.JoinVertical(lipgloss.Left,
		m.scope.WaveView(),
		m.pointer.Mark(m.scope.BarsView()),
	)
	if m.showPanel() {
		panel := panelStyle.Width(panelWidth).Render(m.settings.View(panelWidth - 2))
		panes = lipgloss.JoinHorizontal(lipgloss.Top, panes, panel)
	}

	elapsedStr := timeStyle.Render(util.FormatDuration(m.elapsed))
	durationStr := timeStyle.Render(util.FormatDuration(m.duration))
	progressLine := fmt.Sprintf("%s %s %s", elapsedStr, m.progress.ViewAs(progressRatio(m.elapsed, m.duration)), durationStr)

	statusIcon, statusText := "■", "stopped"
	switch {
	case m.toneOn:
		statusIcon, statusText = "●", "tone"
	case m.player != nil && m.paused:
		statusIcon, statusText = "❚❚", "paused"
	case m.player != nil:
		statusIcon, statusText = "▶", "playing"
	}
	leftText := fmt.Sprintf("%s  %s", statusIcon, statusText)
	if icon := m.repeatMode.Icon(); icon != "" {
		leftText += "  " + icon
	}
	if m.scope.Filtering() {
		leftText += "  [" + string(m.graph.FilterParams().Type) + "]"
	}
	volStr := renderVolumePercent(m.volume)
	meterWidth := max(m.width-lipgloss.Width(leftText)-len(volStr)-12, 4)
	statusLine := statusStyle.Render(leftText) + "  " + m.meter.View(min(meterWidth, 40)) + "  " + statusStyle.Render(volStr)

	message := ""
	if m.status != "" {
		if m.statusErr {
			message = errorStyle.Render(m.status)
		} else {
			message = helpStyle.Render(m.status)
		}
	}

	var b strings.Builder
	b.WriteString("  " + header + "\n")
	b.WriteString(indent(panes) + "\n")
	b.WriteString("  " + progressLine + "\n")
	b.WriteString("  " + statusLine + "\n")
	b.WriteString("  " + message + "\n")
	b.WriteString("\n")
	b.WriteString(indent(m.help.View(keys)))

	return m.zones.Scan(b.String())
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " - wavescope"
	}
	return "▶ " + title + " - wavescope"
}
