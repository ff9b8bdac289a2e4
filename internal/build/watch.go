package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"officekeys/internal/watcher"
)

const defaultDebounce = 100 * time.Millisecond

// Watch regenerates a profile whenever its mapping or defaults file changes,
// until ctx is cancelled. Profiles whose mapping directory does not exist are
// not watched.
func (b *Builder) Watch(ctx context.Context, profiles []Profile) error {
	log := b.logger()

	debounce := b.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	// absolute file path -> indexes of the profiles using it
	owners := make(map[string][]int)
	var files []string
	for i, p := range profiles {
		for _, f := range []string{p.Mapping, p.Defaults} {
			if f == "" {
				continue
			}
			abs, err := filepath.Abs(f)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", f, err)
			}
			if _, err := os.Stat(filepath.Dir(abs)); err != nil {
				log.Warn("not watching, directory missing", "profile", p.Name, "path", f)
				continue
			}
			if _, seen := owners[abs]; !seen {
				files = append(files, abs)
			}
			owners[abs] = appendUnique(owners[abs], i)
		}
	}
	if len(files) == 0 {
		return errors.New("build: no mapping files to watch")
	}

	w, err := watcher.New(files, debounce)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	log.Info("watching", "files", len(files), "debounce", debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			for _, i := range owners[ev.Path] {
				p := profiles[i]
				log.Info("mapping changed", "profile", p.Name, "path", ev.Path)
				if _, err := os.Stat(p.Mapping); errors.Is(err, os.ErrNotExist) {
					log.Info("mapping not found, skipping", "profile", p.Name, "path", p.Mapping)
					continue
				}
				if b.DistDir != "" {
					if err := os.MkdirAll(b.DistDir, 0755); err != nil {
						log.Error("create dist dir", "path", b.DistDir, "error", err)
						continue
					}
				}
				if _, err := b.GenerateProfile(p); err != nil {
					log.Error("generate failed", "profile", p.Name, "error", err)
				}
			}

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
