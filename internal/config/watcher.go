package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the event bursts editors produce per save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the configuration file on change. Successful reloads
// arrive on Configs, failed ones on Errors; a failed reload keeps the
// previous configuration in effect.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string

	configs chan Config
	errs    chan error

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// Watch starts watching a configuration file. The file must parse at
// start.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := Load(abs); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files on save, which drops
	// a direct file watch.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		path:    abs,
		configs: make(chan Config, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Configs delivers each successfully reloaded configuration.
func (w *Watcher) Configs() <-chan Config {
	return w.configs
}

// Errors delivers reload failures.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(reloadDebounce)
			}
			pending = debounce.C

		case <-pending:
			pending = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.deliver(nil, err)
				continue
			}
			w.deliver(&cfg, nil)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.deliver(nil, err)
		}
	}
}

// deliver pushes the latest result, dropping a stale undelivered one.
func (w *Watcher) deliver(cfg *Config, err error) {
	if err != nil {
		select {
		case w.errs <- err:
		default:
		}
		return
	}
	select {
	case w.configs <- *cfg:
	default:
		select {
		case <-w.configs:
		default:
		}
		select {
		case w.configs <- *cfg:
		default:
		}
	}
}
