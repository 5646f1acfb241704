package logger

import (
	"sync"
)

// Component names the feed packages log under.
const (
	ComponentConfig    = "config"
	ComponentReader    = "reader"
	ComponentCollector = "collector"
	ComponentIngest    = "ingest"
	ComponentLifecycle = "lifecycle"
)

// FeedComponents lists every name looked up with Get by the feed packages.
var FeedComponents = []string{
	ComponentConfig,
	ComponentReader,
	ComponentCollector,
	ComponentIngest,
	ComponentLifecycle,
}

var components = struct {
	mu     sync.RWMutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Register makes l the logger returned by Get(name).
func Register(name string, l *Logger) {
	components.mu.Lock()
	components.byName[name] = l
	components.mu.Unlock()
}

// Get returns the logger registered for name, or the global logger tagged
// with name.
func Get(name string) *Logger {
	components.mu.RLock()
	l, ok := components.byName[name]
	components.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterComponents derives one tagged logger per name from base and
// registers it. A nil base means the global logger, so call this after
// Init.
func RegisterComponents(base *Logger, names ...string) {
	if base == nil {
		base = GetGlobalLogger()
	}
	components.mu.Lock()
	defer components.mu.Unlock()
	for _, name := range names {
		components.byName[name] = base.WithComponent(name)
	}
}

// reset drops every registered logger.
func reset() {
	components.mu.Lock()
	components.byName = make(map[string]*Logger)
	components.mu.Unlock()
}
