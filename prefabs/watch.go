package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// ChangeKind says what a changed prefab file configures.
type ChangeKind int

const (
	ChangeZones ChangeKind = iota
	ChangeMusic
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeMusic:
		return "music"
	case ChangeScript:
		return "script"
	default:
		return "zones"
	}
}

// Change is one debounced edit under a watched directory.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edits to music presets, zone presets and filter scripts so
// a running scene can rebuild its zones.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fs,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Changes and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		<-w.doneCh
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	seen := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := classify(event)
			if !ok {
				continue
			}
			now := time.Now()
			if at, ok := seen[change.Path]; ok && now.Sub(at) < watchDebounce {
				continue
			}
			seen[change.Path] = now
			select {
			case w.Changes <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func classify(event fsnotify.Event) (Change, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return Change{}, false
	}
	name := event.Name
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tengo":
		return Change{Path: name, Kind: ChangeScript}, true
	case ".yaml", ".yml":
		if strings.EqualFold(filepath.Base(name), MusicFile) {
			return Change{Path: name, Kind: ChangeMusic}, true
		}
		return Change{Path: name, Kind: ChangeZones}, true
	}
	return Change{}, false
}
