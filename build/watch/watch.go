package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file change.
type EventType int

// Event types.
const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType.
func (et EventType) String() string {
	switch et {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Event is the last change seen on Path during a batch.
type Event struct {
	Type EventType
	Path string
}

// Handler receives every debounced batch, sorted by path.
type Handler func(ctx context.Context, events []Event)

// Watcher watches directory trees.
type Watcher struct {
	fsw   *fsnotify.Watcher
	delay time.Duration
}

// New creates a watcher that waits for delay of silence
// before delivering a batch.
func New(delay time.Duration) (*Watcher, error) {
	const errCtx = "creating watcher"

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &Watcher{fsw: fsw, delay: delay}, nil
}

// AddRecursive watches root and every directory below it.
func (wa *Watcher) AddRecursive(root string) error {
	const errCtx = "watching tree"

	err := filepath.WalkDir(root, func(pa string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !de.IsDir() {
			return nil
		}

		if pa != root && strings.HasPrefix(de.Name(), ".") {
			return filepath.SkipDir
		}

		return wa.fsw.Add(pa)
	})
	if err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, root, err)
	}

	return nil
}

// Close releases the underlying watcher.
func (wa *Watcher) Close() error {
	return wa.fsw.Close()
}

// Run delivers batches to handle until ctx is done or the
// watcher is closed. Handlers run on the Run goroutine, so
// changes made while one runs form the next batch.
func (wa *Watcher) Run(ctx context.Context, handle Handler) error {
	pending := make(map[string]Event)

	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wa.fsw.Events:
			if !ok {
				return nil
			}

			// Attribute changes leave the content as it was.
			if ev.Op == fsnotify.Chmod {
				continue
			}

			wa.follow(ev)

			pending[ev.Name] = Event{Type: convert(ev.Op), Path: ev.Name}
			fire = time.After(wa.delay)
		case err, ok := <-wa.fsw.Errors:
			if !ok {
				return nil
			}

			if errors.Is(err, fsnotify.ErrEventOverflow) {
				slog.Warn("watch event overflow, changes may be missed")

				continue
			}

			slog.Error("watch error", "error", err)
		case <-fire:
			fire = nil

			batch := make([]Event, 0, len(pending))
			for _, ev := range pending {
				batch = append(batch, ev)
			}

			pending = make(map[string]Event)

			sort.Slice(batch, func(i, j int) bool {
				return batch[i].Path < batch[j].Path
			})

			handle(ctx, batch)
		}
	}
}

// follow starts watching directories created under a
// watched tree.
func (wa *Watcher) follow(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return
	}

	if err := wa.AddRecursive(ev.Name); err != nil {
		slog.Warn("cannot watch new directory", "path", ev.Name, "error", err)
	}
}

func convert(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Write):
		return EventTypeModified
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}
