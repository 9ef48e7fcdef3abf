package gateway

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultSDKURL is the hosted checkout SDK script
const DefaultSDKURL = "https://checkout.razorpay.com/v1/checkout.js"

// ScriptRegistry abstracts the execution environment's global script list so
// the loader can be exercised with test doubles instead of ambient lookups
type ScriptRegistry interface {
	// Has reports whether a script with the given source is already registered
	Has(src string) bool
	// Inject registers and executes the script; returns an error if the load
	// fails (network failure, blocked script)
	Inject(src string) error
}

// Loader ensures the external payment SDK is registered exactly once per
// process lifetime. A failed load is terminal: there is no retry and no reset
// primitive, matching the page-lifetime semantics of the hosted SDK.
type Loader struct {
	registry ScriptRegistry
	src      string
	logger   *zap.Logger

	mu         sync.Mutex
	attempted  bool
	loaded     bool
	loadFailed bool
}

// NewLoader creates a loader for the given SDK source
func NewLoader(registry ScriptRegistry, src string, logger *zap.Logger) *Loader {
	if src == "" {
		src = DefaultSDKURL
	}
	return &Loader{
		registry: registry,
		src:      src,
		logger:   logger,
	}
}

// EnsureLoaded makes the SDK available if it is not already. The first call
// checks for an existing script before injecting a new one, so the SDK is
// never double-loaded; subsequent calls return the recorded outcome.
func (l *Loader) EnsureLoaded() (loaded bool, loadFailed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.attempted {
		return l.loaded, l.loadFailed
	}
	l.attempted = true

	if l.registry.Has(l.src) {
		l.loaded = true
		return l.loaded, l.loadFailed
	}

	if err := l.registry.Inject(l.src); err != nil {
		l.loadFailed = true
		l.logger.Error("Failed to load payment SDK", zap.String("src", l.src), zap.Error(err))
		return l.loaded, l.loadFailed
	}

	l.loaded = true
	l.logger.Info("Payment SDK loaded", zap.String("src", l.src))
	return l.loaded, l.loadFailed
}

// Status returns the current load state without triggering a load
func (l *Loader) Status() (loaded bool, loadFailed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded, l.loadFailed
}
