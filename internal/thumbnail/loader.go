package thumbnail

import (
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/shelf/internal/csync"
	"github.com/charmbracelet/shelf/internal/log"
)

// LoadedMsg is sent when a thumbnail finished loading for an item.
type LoadedMsg struct {
	ID   string
	View string
	Err  error
}

// ItemID routes the message to the item that requested it.
func (m LoadedMsg) ItemID() string {
	return m.ID
}

// Loader decodes and renders thumbnails, caching the results. It is safe for
// concurrent use.
type Loader struct {
	cache *csync.Map[uint64, string]
}

var errPanicked = errors.New("thumbnail renderer panicked")

func NewLoader() *Loader {
	return &Loader{cache: csync.NewMap[uint64, string]()}
}

// Load returns the rendered thumbnail for path, decoding it on a cache miss.
func (l *Loader) Load(path string, width, height int) (string, error) {
	key := Key(path, width, height)
	if view, ok := l.cache.Get(key); ok {
		return view, nil
	}
	img, err := Decode(path)
	if err != nil {
		return "", err
	}
	view := Blocks(img, width, height)
	l.cache.Set(key, view)
	slog.Debug("Rendered thumbnail", "path", path, "width", width, "height", height)
	return view, nil
}

// Cached returns a previously rendered thumbnail without loading it.
func (l *Loader) Cached(path string, width, height int) (string, bool) {
	return l.cache.Get(Key(path, width, height))
}

// Len returns the number of cached thumbnails.
func (l *Loader) Len() int {
	return l.cache.Len()
}

// Cmd loads the thumbnail in the background and reports it as a LoadedMsg
// addressed to id.
func (l *Loader) Cmd(id, path string, width, height int) tea.Cmd {
	return func() (msg tea.Msg) {
		defer log.RecoverPanic("thumbnail", func() {
			msg = LoadedMsg{ID: id, Err: errPanicked}
		})
		view, err := l.Load(path, width, height)
		if err != nil {
			slog.Warn("Failed to load thumbnail", "path", path, "error", err)
		}
		return LoadedMsg{ID: id, View: view, Err: err}
	}
}
