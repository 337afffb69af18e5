package canopy

import (
	"log/slog"
	"slices"
	"sync"
)

// Constructor builds the node for one record. Implementations create the
// node, apply base properties (usually via InitNode) and return it detached;
// the loader attaches it, assigns its tag and builds its children.
//
// A constructor may call back into s to materialize sub-graphs. It must not
// modify the registry.
type Constructor interface {
	Construct(s *Session, rec Record) (*Node, error)
}

// ConstructorFunc adapts a function to Constructor.
type ConstructorFunc func(s *Session, rec Record) (*Node, error)

// Construct implements Constructor.
func (f ConstructorFunc) Construct(s *Session, rec Record) (*Node, error) {
	return f(s, rec)
}

// Registry maps type tags to constructors. Tags are case-sensitive and
// matched exactly. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	ctors  map[string]Constructor
	logger *slog.Logger
}

// NewRegistry returns an empty registry. See RegisterBuiltins for the
// standard tag set.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// SetLogger sets the logger that receives replacement notices. A loader
// created with this registry sets it to the loader's logger when unset.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// Logger returns the logger set with SetLogger, or nil.
func (r *Registry) Logger() *slog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}

// Register stores c under tag. The last registration for a tag wins; a
// replacement is logged at debug level and reported by the return value.
// Panics if c is nil.
func (r *Registry) Register(tag string, c Constructor) (replaced bool) {
	if c == nil {
		panic("canopy: cannot register nil constructor")
	}
	r.mu.Lock()
	_, replaced = r.ctors[tag]
	r.ctors[tag] = c
	logger := r.logger
	r.mu.Unlock()
	if replaced {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("canopy: constructor replaced", "tag", tag)
	}
	return replaced
}

// RegisterFunc is Register for a plain function.
func (r *Registry) RegisterFunc(tag string, f func(s *Session, rec Record) (*Node, error)) bool {
	return r.Register(tag, ConstructorFunc(f))
}

// Unregister removes tag. No-op if tag is not registered.
func (r *Registry) Unregister(tag string) {
	r.mu.Lock()
	delete(r.ctors, tag)
	r.mu.Unlock()
}

// Resolve returns the constructor for tag.
func (r *Registry) Resolve(tag string) (Constructor, bool) {
	r.mu.RLock()
	c, ok := r.ctors[tag]
	r.mu.RUnlock()
	return c, ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	tags := make([]string, 0, len(r.ctors))
	for t := range r.ctors {
		tags = append(tags, t)
	}
	r.mu.RUnlock()
	slices.Sort(tags)
	return tags
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ctors)
}
