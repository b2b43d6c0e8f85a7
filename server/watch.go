package server

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/reoring/gviz/chart"
	"github.com/reoring/gviz/logger"
)

const debouncePeriod = 200 * time.Millisecond

// chartName maps a spec file to its chart name; ok is false for files that
// are not specs.
func chartName(path string) (string, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return "", false
	}
	if _, ok := chart.FormatFromPath(base); !ok {
		return "", false
	}
	return strings.TrimSuffix(base, filepath.Ext(base)), true
}

// LoadDir (re)reads every spec file in the spec directory. Files that fail
// to decode are logged and skipped.
func (s *Server) LoadDir() error {
	entries, err := os.ReadDir(s.opts.SpecDir)
	if err != nil {
		return errors.Wrap(err, "read spec dir")
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if s.loadFile(filepath.Join(s.opts.SpecDir, e.Name())) {
			n++
		}
	}
	s.log.Infow("spec directory loaded", logger.FieldPath, s.opts.SpecDir, logger.FieldCount, n)
	return nil
}

func (s *Server) loadFile(path string) bool {
	name, ok := chartName(path)
	if !ok {
		return false
	}
	spec, err := chart.ReadSpecFile(path)
	if err != nil {
		s.log.Warnw("skipping spec file", logger.FieldFile, path, logger.FieldError, err)
		return false
	}
	s.replace(name, spec)
	return true
}

// Watch reloads spec files as they change.
func (s *Server) Watch() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	if err := w.Add(s.opts.SpecDir); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "watch %s", s.opts.SpecDir)
	}
	s.watcher = w
	go s.watchLoop(w)
	return nil
}

// StopWatch stops watching the spec directory.
func (s *Server) StopWatch() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher == nil {
		return
	}
	_ = s.watcher.Close()
	s.watcher = nil
	for _, t := range s.debounce {
		t.Stop()
	}
	clear(s.debounce)
}

func (s *Server) watchLoop(w *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			name, ok := chartName(ev.Name)
			if !ok {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
				s.schedule(ev.Name)
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				s.log.Infow("spec removed", logger.FieldChart, name)
				s.forget(name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

// schedule debounces bursts of writes to the same file.
func (s *Server) schedule(path string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if t, ok := s.debounce[path]; ok {
		t.Stop()
	}
	s.debounce[path] = time.AfterFunc(debouncePeriod, func() {
		s.watchMu.Lock()
		delete(s.debounce, path)
		s.watchMu.Unlock()
		if s.loadFile(path) {
			s.log.Infow("spec reloaded", logger.FieldFile, path)
		}
	})
}
