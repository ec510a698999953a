package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"atscore/internal/errors"
)

const defaultWatchDebounce = time.Second

// CertWatcher observes TLS certificate files on disk and invokes a
// callback once the set of watched files has settled after a change.
// Rapid successive events (editors, atomic renames) collapse into a
// single reload through a debounce timer.
type CertWatcher struct {
	mu sync.RWMutex

	certFile string
	keyFile  string
	caFile   string

	modTimes map[string]time.Time

	fsw      *fsnotify.Watcher
	debounce time.Duration
	timer    *time.Timer

	done    chan struct{}
	pending chan struct{}

	onReload func()
	logger   *errors.Logger

	running bool
}

// NewCertWatcher prepares a watcher for the given certificate paths.
// Empty paths are skipped. Call Start to begin watching.
func NewCertWatcher(certFile, keyFile, caFile string, debounce time.Duration, onReload func(), logger *errors.Logger) *CertWatcher {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	return &CertWatcher{
		certFile: certFile,
		keyFile:  keyFile,
		caFile:   caFile,
		modTimes: make(map[string]time.Time),
		debounce: debounce,
		done:     make(chan struct{}),
		pending:  make(chan struct{}, 1),
		onReload: onReload,
		logger:   logger,
	}
}

// watchTargets returns the non-empty certificate paths.
func (cw *CertWatcher) watchTargets() []string {
	targets := make([]string, 0, 3)
	for _, f := range []string{cw.certFile, cw.keyFile, cw.caFile} {
		if f != "" {
			targets = append(targets, f)
		}
	}
	return targets
}

// Start begins watching the certificate files and launches the event loop.
func (cw *CertWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("certificate watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	cw.fsw = fsw

	if err := cw.snapshotModTimes(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil && cw.logger != nil {
			cw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("read initial modification times: %w", err)
	}

	targets := cw.watchTargets()
	for _, file := range targets {
		if err := cw.watchFile(file); err != nil && cw.logger != nil {
			cw.logger.Warn("Failed to watch certificate file", "file", file, "error", err)
		}
	}

	cw.running = true
	go cw.loop()

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher started",
			"files", targets, "debounce_delay", cw.debounce)
	}
	return nil
}

// Stop halts the event loop and releases the filesystem watcher.
func (cw *CertWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}

	close(cw.done)
	if cw.timer != nil {
		cw.timer.Stop()
	}
	if cw.fsw != nil {
		if err := cw.fsw.Close(); err != nil {
			if cw.logger != nil {
				cw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}
	cw.running = false

	if cw.logger != nil {
		cw.logger.Info("Certificate file watcher stopped")
	}
	return nil
}

// watchFile registers a file with the filesystem watcher. A missing file
// falls back to watching its parent directory so creation is caught. The
// directory is watched in any case; atomic writes surface as renames on
// the directory rather than writes on the file.
func (cw *CertWatcher) watchFile(file string) error {
	dir := filepath.Dir(file)

	if err := cw.fsw.Add(file); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("watch file %s: %w", file, err)
		}
		if err := cw.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
		if cw.logger != nil {
			cw.logger.Info("Watching directory for certificate file",
				"file", file, "directory", dir)
		}
		return nil
	}

	if err := cw.fsw.Add(dir); err != nil && cw.logger != nil {
		cw.logger.Warn("Failed to watch directory for atomic writes",
			"directory", dir, "error", err)
	}
	return nil
}

// snapshotModTimes records the current modification time of every target.
func (cw *CertWatcher) snapshotModTimes() error {
	for _, file := range cw.watchTargets() {
		stat, err := os.Stat(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat %s: %w", file, err)
		}
		cw.modTimes[file] = stat.ModTime()
	}
	return nil
}

// changed reports whether a file was modified or deleted since the last
// snapshot and updates the snapshot accordingly.
func (cw *CertWatcher) changed(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			if _, known := cw.modTimes[file]; known {
				delete(cw.modTimes, file)
				return true
			}
		}
		return false
	}

	last, known := cw.modTimes[file]
	if known && !stat.ModTime().After(last) {
		return false
	}
	cw.modTimes[file] = stat.ModTime()
	return true
}

func (cw *CertWatcher) loop() {
	for {
		select {
		case event, ok := <-cw.fsw.Events:
			if !ok {
				return
			}
			if cw.relevant(event) {
				cw.scheduleReload()
			}

		case err, ok := <-cw.fsw.Errors:
			if !ok {
				return
			}
			if cw.logger != nil {
				cw.logger.LogError(err, "File watcher error")
			}

		case <-cw.pending:
			if slices.ContainsFunc(cw.watchTargets(), cw.changed) {
				if cw.logger != nil {
					cw.logger.Info("Certificate files changed, triggering reload")
				}
				cw.onReload()
			}

		case <-cw.done:
			return
		}
	}
}

// relevant reports whether a filesystem event concerns one of the watched
// files. Base-name comparison covers events delivered for the directory.
func (cw *CertWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	for _, file := range cw.watchTargets() {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			return true
		}
	}
	return false
}

// scheduleReload arms (or re-arms) the debounce timer.
func (cw *CertWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, func() {
		select {
		case cw.pending <- struct{}{}:
		default:
		}
	})
}

// IsRunning reports whether the event loop is active.
func (cw *CertWatcher) IsRunning() bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.running
}

// GetWatchedFiles returns the certificate paths under watch.
func (cw *CertWatcher) GetWatchedFiles() []string {
	return cw.watchTargets()
}
