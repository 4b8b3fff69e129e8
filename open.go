package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olivier-w/wavescope/internal/audio"
	"github.com/olivier-w/wavescope/internal/media"
	"github.com/olivier-w/wavescope/internal/player"
	"github.com/olivier-w/wavescope/internal/queue"
)

var errNoPlayableEntries = errors.New("playlist contains no playable entries")

// input is a resolved command line argument: the tracks to play, starting at
// the queue's current index. A lone file has no queue.
type input struct {
	path  string
	queue *queue.Queue
}

// resolveInput checks arg and expands playlists and sibling files into a
// queue.
func resolveInput(arg string) (input, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return input{}, err
	}
	if info.IsDir() {
		return input{}, fmt.Errorf("%s is a directory", arg)
	}

	ext := strings.ToLower(filepath.Ext(arg))
	if media.IsPlaylistExt(ext) {
		entries, err := media.ParsePlaylist(arg)
		if err != nil {
			return input{}, err
		}
		entries = media.Playable(entries)
		if len(entries) == 0 {
			return input{}, errNoPlayableEntries
		}
		q := queue.FromEntries(entries)
		return input{path: entries[0].Path, queue: q}, nil
	}
	if !media.IsSupportedExt(ext) {
		return input{}, fmt.Errorf("%w %s (supported: %s)", player.ErrUnsupportedFormat, ext, media.SupportedExtsList())
	}

	siblings := scanAudioFiles(arg)
	if siblings == nil {
		return input{path: arg}, nil
	}
	tracks := make([]queue.Track, len(siblings))
	start := 0
	abs, _ := filepath.Abs(arg)
	for i, f := range siblings {
		tracks[i] = queue.Track{
			Title: strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)),
			Path:  f,
		}
		if f == abs {
			start = i
		}
	}
	q := queue.New(tracks)
	q.SetCurrentIndex(start)
	return input{path: arg, queue: q}, nil
}

// scanAudioFiles returns the supported audio files in path's directory,
// sorted case-insensitively, or nil when there are fewer than two.
func scanAudioFiles(path string) []string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	dir := filepath.Dir(abs)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !media.IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) < 2 {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files
}

// playback is an opened input, ready for the TUI.
type playback struct {
	player   *player.Player
	metadata player.Metadata
	queue    *queue.Queue
}

// openPlayback starts the first track of in that opens. Playlist entries that
// fail are marked and skipped.
func openPlayback(in input, graph *audio.Graph, logger *slog.Logger) (playback, error) {
	if in.queue == nil {
		p, err := player.New(in.path, graph, logger)
		if err != nil {
			return playback{}, fmt.Errorf("creating player: %w", err)
		}
		return playback{player: p, metadata: player.ReadMetadata(in.path)}, nil
	}

	q := in.queue
	for {
		t := q.Current()
		p, err := player.New(t.Path, graph, logger)
		if err == nil {
			return playback{player: p, metadata: player.ReadMetadata(t.Path), queue: q}, nil
		}
		logger.Warn("skipping track", "path", t.Path, "error", err)
		q.SetState(queue.Failed)
		if !q.Advance() {
			return playback{}, fmt.Errorf("creating player: %w", err)
		}
	}
}
