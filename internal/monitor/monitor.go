// Package monitor keeps a batch of actions applied to a hosts file that
// other tools rewrite.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"hostsmod/internal/hostsfile"
	"hostsmod/pkg/models"
)

// DefaultSettle is how long the hosts file must stay quiet before the
// batch is applied again
const DefaultSettle = 200 * time.Millisecond

// ErrWatchStopped indicates the file watcher shut down while the monitor
// was still running
var ErrWatchStopped = errors.New("monitor: file watcher stopped")

// Runner applies a batch of actions to a hosts file
type Runner interface {
	Path() string
	Run(actions []models.Action) (*hostsfile.Result, error)
}

// Monitor re-applies actions whenever the hosts file changes
type Monitor struct {
	runner  Runner
	actions []models.Action
	path    string

	// Settle delays a run until events stop arriving
	Settle time.Duration
	// OnResult, if set, receives the outcome of every run
	OnResult func(*hostsfile.Result, error)

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new monitor instance
func New(runner Runner, actions []models.Action) *Monitor {
	return &Monitor{
		runner:  runner,
		actions: actions,
		Settle:  DefaultSettle,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start applies the actions once and begins watching the hosts file.
// The directory is watched since the file is replaced by rename.
func (m *Monitor) Start() error {
	path, err := filepath.Abs(m.runner.Path())
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", m.runner.Path(), err)
	}
	m.path = path

	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	m.apply()

	if err := m.watcher.Add(filepath.Dir(m.path)); err != nil {
		m.watcher.Close()
		m.watcher = nil
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(m.path), err)
	}

	go m.watchFiles()
	return nil
}

// Run starts the monitor and blocks until ctx is cancelled or the watcher
// fails
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	defer m.Stop()
	return m.wait(ctx)
}

// wait blocks until ctx is cancelled or watching ends on its own
func (m *Monitor) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-m.done:
		return fmt.Errorf("%w: %s", ErrWatchStopped, m.path)
	}
}

func (m *Monitor) watchFiles() {
	defer close(m.done)

	timer := time.NewTimer(m.Settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Printf("File modified: %s", event.Name)
			timer.Reset(m.Settle)

		case <-timer.C:
			m.apply()

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) apply() {
	res, err := m.runner.Run(m.actions)
	if err != nil {
		log.Printf("Error applying actions to %s: %v", m.path, err)
	}
	if m.OnResult != nil {
		m.OnResult(res, err)
	}
}

// Stop stops monitoring and waits for a pending run to finish
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		if m.watcher != nil {
			m.watcher.Close()
			<-m.done
		}
	})
}
