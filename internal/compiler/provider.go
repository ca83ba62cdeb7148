package compiler

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Provider hands out immutable Registry snapshots and supports
// atomic hot-reload. In-flight compilations keep the snapshot they
// started with; a reload swaps the pointer for subsequent calls
// (read-copy-update — the Registry itself is never mutated).
type Provider struct {
	path    string
	current atomic.Pointer[Registry]
}

// NewProvider loads the registry from path and returns a Provider
// seeded with that snapshot. A load failure here is a configuration
// error and should abort startup.
func NewProvider(path string) (*Provider, error) {
	reg, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	p := &Provider{path: path}
	p.current.Store(reg)
	return p, nil
}

// NewStaticProvider wraps an already-built registry, for tests and
// embedded use. Reload and Watch are unavailable without a path.
func NewStaticProvider(reg *Registry) *Provider {
	p := &Provider{}
	p.current.Store(reg)
	return p
}

// Registry returns the current immutable snapshot.
func (p *Provider) Registry() *Registry {
	return p.current.Load()
}

// Reload re-reads the registry file and swaps in the new snapshot.
// On failure the previous snapshot stays in place.
func (p *Provider) Reload() error {
	if p.path == "" {
		return fmt.Errorf("registry provider has no backing file")
	}
	reg, err := LoadRegistry(p.path)
	if err != nil {
		return err
	}
	p.current.Store(reg)
	return nil
}

// watchDebounce is how long to wait after a file event before
// reloading — editors typically fire several events per save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the registry whenever its file changes, until ctx is
// cancelled. The parent directory is watched rather than the file
// itself so atomic rename-into-place saves are picked up. Reload
// failures are logged and the previous snapshot kept — a broken edit
// never takes down a running server.
func (p *Provider) Watch(ctx context.Context) error {
	if p.path == "" {
		return fmt.Errorf("registry provider has no backing file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating registry watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(p.path)
	var timer *time.Timer
	reload := func() {
		if err := p.Reload(); err != nil {
			log.Printf("WARNING: registry reload failed, keeping previous snapshot: %v", err)
			return
		}
		log.Printf("registry reloaded from %s", p.path)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("WARNING: registry watcher: %v", err)
		}
	}
}
