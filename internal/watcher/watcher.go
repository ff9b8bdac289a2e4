// Package watcher reports mapping files whose content changed once they have
// been quiet for a debounce interval.
package watcher

import (
	"crypto/sha256"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports a tracked file whose content changed.
type Event struct {
	Path      string
	Hash      [32]byte
	Size      int64
	Timestamp time.Time
}

// Watcher monitors a fixed set of files. Directories containing the files
// are watched so that editors replacing a file are still noticed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     []string
	debounce  time.Duration

	// path -> time of the last write seen
	pending map[string]time.Time
	// path -> content hash last reported or seen at start
	hashes  map[string][32]byte
	tracked map[string]bool
	stateMu sync.Mutex

	events chan Event
	errors chan error

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher for files. A non-positive debounce reports changes
// on the next tick.
func New(files []string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		pending:   make(map[string]time.Time),
		hashes:    make(map[string][32]byte),
		tracked:   make(map[string]bool),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		if !w.tracked[abs] {
			w.tracked[abs] = true
			w.files = append(w.files, abs)
		}
	}

	return w, nil
}

// Events returns the channel of change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start records the current content of every tracked file and begins
// watching. The directory of each file must exist; the file itself may not.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)
	for _, path := range w.files {
		dir := filepath.Dir(path)
		if !dirs[dir] {
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return &os.PathError{Op: "watch", Path: dir, Err: os.ErrInvalid}
			}
			if err := w.fsWatcher.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}

		if hash, _, err := HashFile(path); err == nil {
			w.hashes[path] = hash
		}
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()

	return nil
}

// Stop shuts down the watcher and closes its channels.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsWatcher.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			path := filepath.Clean(event.Name)
			if !w.tracked[path] {
				continue
			}

			w.stateMu.Lock()
			w.pending[path] = time.Now()
			w.stateMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case now := <-ticker.C:
			w.checkStableFiles(now)
		}
	}
}

type stableFile struct {
	path    string
	lastMod time.Time
}

// checkStableFiles reports files that have been quiet for the debounce
// interval and whose content differs from the last reported hash. The lock
// is released while hashing so eventLoop is not blocked on I/O.
func (w *Watcher) checkStableFiles(now time.Time) {
	threshold := now.Add(-w.debounce)

	var stable []stableFile
	w.stateMu.Lock()
	for path, lastMod := range w.pending {
		if !lastMod.After(threshold) {
			stable = append(stable, stableFile{path: path, lastMod: lastMod})
		}
	}
	w.stateMu.Unlock()

	if len(stable) == 0 {
		return
	}

	type hashResult struct {
		stableFile
		hash [32]byte
		size int64
		err  error
	}
	results := make([]hashResult, len(stable))
	for i, sf := range stable {
		hash, size, err := HashFile(sf.path)
		results[i] = hashResult{stableFile: sf, hash: hash, size: size, err: err}
	}

	w.stateMu.Lock()
	defer w.stateMu.Unlock()

	for _, r := range results {
		if w.pending[r.path] != r.lastMod {
			// written again while hashing
			continue
		}
		delete(w.pending, r.path)

		if r.err != nil {
			// removed or renamed away; wait for it to reappear
			if !os.IsNotExist(r.err) {
				w.sendError(r.err)
			}
			continue
		}
		if prev, ok := w.hashes[r.path]; ok && prev == r.hash {
			continue
		}

		event := Event{
			Path:      r.path,
			Hash:      r.hash,
			Size:      r.size,
			Timestamp: now,
		}
		select {
		case w.events <- event:
			w.hashes[r.path] = r.hash
		default:
			// channel full, retry on the next tick
			w.pending[r.path] = r.lastMod
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) ([32]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return [32]byte{}, 0, err
	}

	var hash [32]byte
	copy(hash[:], h.Sum(nil))
	return hash, size, nil
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	return append([]string(nil), w.files...)
}

// Pending returns the number of files waiting to settle.
func (w *Watcher) Pending() int {
	w.stateMu.Lock()
	defer w.stateMu.Unlock()
	return len(w.pending)
}
