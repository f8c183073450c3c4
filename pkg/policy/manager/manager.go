package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"mercator-hq/logtap/pkg/config"
	"mercator-hq/logtap/pkg/intercept"
	"mercator-hq/logtap/pkg/policy/engine"
)

// Common sentinel errors
var (
	// ErrNoPolicyFile indicates a configuration without a policy file.
	ErrNoPolicyFile = errors.New("no policy file configured")

	// ErrWatchDisabled indicates Watch was called with watching disabled.
	ErrWatchDisabled = errors.New("policy watching is not enabled in configuration")

	// ErrWatchRunning indicates Watch was called while already watching.
	ErrWatchRunning = errors.New("watch already started")
)

// ReloadRecorder receives the result of every load, "success" or "error".
// metrics.Collector satisfies it.
type ReloadRecorder interface {
	RecordReload(result string)
}

// Status describes the manager's last load.
type Status struct {
	// Source is the policy group name used for registration.
	Source string `json:"source"`

	// Policies is the number of policies registered by the last
	// successful load.
	Policies int `json:"policies"`

	// Loads counts successful loads.
	Loads int `json:"loads"`

	// LastLoad is the time of the last successful load.
	LastLoad time.Time `json:"last_load"`

	// LastError is the error of the last load, nil if it succeeded.
	LastError error `json:"-"`
}

// Manager registers the policies of a policy file with the interceptor and
// keeps them in sync with the file.
//
// Policies are registered on behalf of the code that created the Manager:
// a Manager created by the host application registers host policies, one
// created inside a dependency registers policies confined to that
// dependency. Every load replaces the previous load's policies as a group.
// A failed load leaves the previously registered policies in place.
type Manager struct {
	config     *config.PolicyConfig
	logger     *slog.Logger
	registrant engine.Registrant
	source     string
	opts       CompileOptions
	metrics    ReloadRecorder

	mu       sync.RWMutex
	policies int
	loads    int
	lastLoad time.Time
	lastErr  error

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

// New creates a manager for cfg.File. The registrant is derived from the
// caller of New.
func New(cfg *config.PolicyConfig, logger *slog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.File == "" {
		return nil, ErrNoPolicyFile
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve policy file %q: %w", cfg.File, err)
	}

	return &Manager{
		config:     cfg,
		logger:     logger,
		registrant: intercept.CallerRegistrant(1),
		source:     "policy-file:" + abs,
	}, nil
}

// WithMetrics sets the recorder notified of every load.
func (m *Manager) WithMetrics(r ReloadRecorder) *Manager {
	m.metrics = r
	return m
}

// WithCompileOptions sets the options used to build transforms.
func (m *Manager) WithCompileOptions(opts CompileOptions) *Manager {
	m.opts = opts
	return m
}

// WithRegistrant overrides the attribution derived in New. Tools that load
// a policy file on behalf of the project they run in pass
// intercept.HostRegistrant.
func (m *Manager) WithRegistrant(reg engine.Registrant) *Manager {
	m.registrant = reg
	return m
}

// Registrant returns the attribution used for registered policies.
func (m *Manager) Registrant() engine.Registrant {
	return m.registrant
}

// Load reads the policy file and replaces the manager's registered
// policies with its contents.
func (m *Manager) Load() error {
	start := time.Now()

	policies, err := LoadFile(m.config.File, m.opts)
	if err == nil {
		err = intercept.AttachSource(m.registrant, m.source, policies...)
	}

	m.mu.Lock()
	m.lastErr = err
	if err == nil {
		m.policies = len(policies)
		m.loads++
		m.lastLoad = time.Now()
	}
	m.mu.Unlock()

	if err != nil {
		m.record("error")
		m.logger.Error("policy load failed",
			"path", m.config.File,
			"error", err,
		)
		return err
	}

	m.record("success")
	m.logger.Info("policies loaded",
		"path", m.config.File,
		"kind", m.registrant.Kind.String(),
		"count", len(policies),
		"duration", time.Since(start),
	)
	return nil
}

func (m *Manager) record(result string) {
	if m.metrics != nil {
		m.metrics.RecordReload(result)
	}
}

// Watch reloads the policy file whenever it changes, until ctx is
// cancelled or Stop is called. It blocks and returns nil on a clean stop.
func (m *Manager) Watch(ctx context.Context) error {
	if !m.config.Watch {
		return ErrWatchDisabled
	}

	m.watchMu.Lock()
	if m.watchCancel != nil {
		m.watchMu.Unlock()
		return ErrWatchRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.watchCancel = cancel
	m.watchDone = done
	m.watchMu.Unlock()

	defer func() {
		cancel()
		m.watchMu.Lock()
		m.watchCancel = nil
		m.watchDone = nil
		m.watchMu.Unlock()
		close(done)
	}()

	watcher, err := NewFileWatcher(m.config.File, m.config.DebounceInterval, m.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			m.logger.Error("failed to stop policy watcher", "error", err)
		}
	}()

	m.logger.Info("watching policies",
		"path", m.config.File,
		"debounce", m.config.DebounceInterval,
	)
	return watcher.Watch(ctx, m.Load)
}

// Stop ends a running Watch and waits for it to return. Registered
// policies stay in place.
func (m *Manager) Stop() {
	m.watchMu.Lock()
	cancel, done := m.watchCancel, m.watchDone
	m.watchMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Status returns the result of the last load.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		Source:    m.source,
		Policies:  m.policies,
		Loads:     m.loads,
		LastLoad:  m.lastLoad,
		LastError: m.lastErr,
	}
}
