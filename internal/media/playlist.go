package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entry is one local track listed by a playlist.
type Entry struct {
	Path  string
	Title string // from #EXTINF or TitleN, may be empty
}

// ParsePlaylist reads a .m3u, .m3u8 or .pls file. Relative entries resolve
// against the playlist's directory; URLs are skipped.
func ParsePlaylist(path string) ([]Entry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	text := strings.TrimPrefix(string(data), "\uFEFF")
	scanner := bufio.NewScanner(strings.NewReader(text))
	base := filepath.Dir(abs)
	if ext == ".pls" {
		return parsePLS(scanner, base), nil
	}
	return parseM3U(scanner, base), nil
}

// Playable keeps only existing, supported audio files.
func Playable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(e.Path)
		if err != nil || info.IsDir() || !IsSupportedExt(filepath.Ext(e.Path)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseM3U(scanner *bufio.Scanner, base string) []Entry {
	var entries []Entry
	var title string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "#EXTINF:"):
			if _, t, ok := strings.Cut(line, ","); ok {
				title = strings.TrimSpace(t)
			}
		case strings.HasPrefix(line, "#"):
		default:
			if p, ok := resolveEntry(line, base); ok {
				entries = append(entries, Entry{Path: p, Title: title})
			}
			title = ""
		}
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner, base string) []Entry {
	files := map[int]string{}
	titles := map[int]string{}
	var order []int

	for scanner.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if val == "" {
			continue
		}
		if n, ok := plsIndex(key, "File"); ok {
			if _, seen := files[n]; !seen {
				order = append(order, n)
			}
			files[n] = val
		} else if n, ok := plsIndex(key, "Title"); ok {
			titles[n] = val
		}
	}

	var entries []Entry
	for _, n := range order {
		if p, ok := resolveEntry(files[n], base); ok {
			entries = append(entries, Entry{Path: p, Title: titles[n]})
		}
	}
	return entries
}

// plsIndex parses keys such as File3, case-insensitively.
func plsIndex(key, prefix string) (int, bool) {
	if len(key) <= len(prefix) || !strings.EqualFold(key[:len(prefix)], prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(key[len(prefix):])
	return n, err == nil && n > 0
}

func resolveEntry(raw, base string) (string, bool) {
	raw = strings.Trim(raw, `"`)
	if strings.Contains(raw, "://") {
		return "", false
	}
	p := filepath.Clean(raw)
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return p, true
}
