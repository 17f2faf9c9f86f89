package memstore

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// Watch starts watching the snapshot file for changes made by other processes.
// The onChange callback is invoked (after debouncing) once the in-memory state
// has been reloaded. Events caused by this store's own writes are ignored.
func (s *Store) Watch(onChange func()) error {
	if s.path == "" {
		return ErrNoSnapshot
	}

	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return nil // Already watching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	// Watch the directory: the snapshot is replaced by rename, which would
	// drop a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		s.mu.Unlock()
		return err
	}

	s.watching = true
	s.done = make(chan struct{})
	s.onChange = onChange
	s.mu.Unlock()

	go s.watchLoop(watcher)

	return nil
}

// Unwatch stops watching the snapshot file.
func (s *Store) Unwatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.watching {
		return nil
	}

	close(s.done)
	s.watching = false
	s.onChange = nil
	return nil
}

// watchLoop processes filesystem events with debouncing.
func (s *Store) watchLoop(watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(s.path)

	var debounceTimer *time.Timer
	var timerMu sync.Mutex

	for {
		select {
		case <-s.done:
			timerMu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			timerMu.Unlock()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			timerMu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, s.reload)
			timerMu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("snapshot watcher: %v", err)
		}
	}
}

// reload re-reads a changed snapshot and notifies the watcher callback.
func (s *Store) reload() {
	s.mu.Lock()
	if !s.watching {
		s.mu.Unlock()
		return
	}
	changed, err := s.syncFromDisk()
	if err != nil {
		s.mu.Unlock()
		log.Printf("reloading snapshot %s: %v", s.path, err)
		return
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	callback := s.onChange
	s.mu.Unlock()

	if callback != nil {
		callback()
	}
}
