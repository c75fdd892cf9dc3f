package store

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vango-dev/vstore/internal/errors"
)

// Registry holds one isolated set of store instances, one per store id.
type Registry struct {
	id     string
	logger *slog.Logger

	strictIDs      bool
	resultOverride bool

	mu      sync.Mutex
	stores  map[string]*Store
	plugins []Plugin
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for store lifecycle events.
// If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithStrictIDs makes the registry reject a second, distinct definition for
// an id that is already constructed. By default the existing instance is
// returned unchanged.
func WithStrictIDs(strict bool) Option {
	return func(r *Registry) {
		r.strictIDs = strict
	}
}

// WithResultOverride lets After callbacks replace an action's result by
// returning a non-nil value. By default After callbacks observe only.
func WithResultOverride(enabled bool) Option {
	return func(r *Registry) {
		r.resultOverride = enabled
	}
}

// WithPlugins installs plugins at construction time.
func WithPlugins(plugins ...Plugin) Option {
	return func(r *Registry) {
		r.plugins = append(r.plugins, plugins...)
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		id:     uuid.NewString(),
		stores: make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// ID returns the registry's unique id.
func (r *Registry) ID() string {
	return r.id
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// Use installs a plugin. It applies to stores constructed afterwards.
func (r *Registry) Use(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = append(r.plugins, p)
}

// Has reports whether a store with id has been constructed in r.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.stores[id]
	return ok
}

// Stores returns the ids of all constructed stores, sorted.
func (r *Registry) Stores() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// instance returns the store for d, constructing it on first access.
func (r *Registry) instance(d *definition) (*Store, error) {
	r.mu.Lock()
	if existing, ok := r.stores[d.id]; ok {
		r.mu.Unlock()
		if r.strictIDs && existing.def != d {
			return nil, errors.New("S002").
				WithDetailf("store %q is already defined in registry %s", d.id, r.id)
		}
		return existing, nil
	}
	r.mu.Unlock()

	// Built outside the lock: state factories and plugins are user code and
	// may access other stores in this registry.
	s := newStore(r, d)

	r.mu.Lock()
	if existing, ok := r.stores[d.id]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.stores[d.id] = s
	plugins := make([]Plugin, len(r.plugins))
	copy(plugins, r.plugins)
	r.mu.Unlock()

	for _, p := range plugins {
		p(PluginContext{Registry: r, Store: s, Definition: d.public()})
	}

	r.logger.Debug("store constructed", "store", d.id, "registry", r.id)
	return s, nil
}

// remove drops s from the registry if it is still the cached instance.
func (r *Registry) remove(s *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stores[s.id] == s {
		delete(r.stores, s.id)
	}
}

// The active registry slot. It is the package's only global.
var (
	activeMu sync.RWMutex
	active   *Registry
)

// SetActive makes r the active registry and returns the previous one.
// Passing nil clears the slot.
func SetActive(r *Registry) *Registry {
	activeMu.Lock()
	defer activeMu.Unlock()
	prev := active
	active = r
	return prev
}

// Active returns the active registry, or nil.
func Active() *Registry {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return active
}

// WithActive runs fn with r active and restores the previous registry, even
// if fn panics.
func WithActive(r *Registry, fn func()) {
	prev := SetActive(r)
	defer SetActive(prev)
	fn()
}

// resolve picks the explicit registry when given, else the active one.
func resolve(explicit []*Registry) *Registry {
	if len(explicit) > 0 && explicit[0] != nil {
		return explicit[0]
	}
	return Active()
}
