package canopy

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// LoaderConfig holds the collaborators of a Loader. Zero fields get
// defaults: a registry with RegisterBuiltins applied, a DefaultCacheSize
// cache, no Source, and slog.Default(). A registry without a logger is given
// Logger.
type LoaderConfig struct {
	Registry *Registry
	Cache    *Cache
	Source   Source
	Logger   *slog.Logger

	// Debug enables tree-depth and child-count warnings.
	Debug bool
}

// Loader turns scene documents into node trees. The registry and cache it
// holds may be shared with other loaders; a Loader itself keeps no per-build
// state, so concurrent builds are safe.
type Loader struct {
	registry *Registry
	cache    *Cache
	source   Source
	logger   *slog.Logger
	debug    bool
}

// NewLoader creates a loader from cfg.
func NewLoader(cfg LoaderConfig) *Loader {
	l := &Loader{
		registry: cfg.Registry,
		cache:    cfg.Cache,
		source:   cfg.Source,
		logger:   cfg.Logger,
		debug:    cfg.Debug,
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.registry == nil {
		l.registry = NewRegistry()
		l.registry.SetLogger(l.logger)
		RegisterBuiltins(l.registry, BuiltinOptions{})
	} else if l.registry.Logger() == nil {
		l.registry.SetLogger(l.logger)
	}
	if l.cache == nil {
		l.cache = NewCache(DefaultCacheSize)
	}
	return l
}

// Registry returns the loader's type registry.
func (l *Loader) Registry() *Registry { return l.registry }

// Cache returns the loader's sub-graph cache.
func (l *Loader) Cache() *Cache { return l.cache }

// Build materializes rec. When parent is non-nil the new node is appended to
// it and rec's own layout record, if any, is resolved against it.
//
// Build never fails as a whole: problems are contained to the subtree that
// caused them and listed in the result. Result.Root is nil only when rec
// itself could not be built.
func (l *Loader) Build(rec Record, parent *Node) *Result {
	s := l.newSession()
	root := s.build(rec, parent, "$")
	if root != nil && parent != nil {
		s.layout(root, rec, "$")
	}
	return s.result(root)
}

// LoadContent parses data and builds the document it holds. A malformed
// document returns a *ParseError and no result.
func (l *Loader) LoadContent(data []byte, format Format) (*Result, error) {
	rec, err := ParseDocument(data, format, "")
	if err != nil {
		return nil, err
	}
	return l.Build(rec, nil), nil
}

// LoadFile reads name from the loader's Source, parses it and builds it.
// Read and parse failures are fatal and return no result. Unlike sub-graph
// references, top-level loads bypass the cache.
func (l *Loader) LoadFile(name string) (*Result, error) {
	data, err := l.readDocument(name)
	if err != nil {
		return nil, err
	}
	rec, err := ParseDocument(data, FormatForPath(name), name)
	if err != nil {
		return nil, err
	}
	s := l.newSession()
	s.loading = append(s.loading, name)
	root := s.build(rec, nil, "$")
	if root != nil {
		root.Source = name
	}
	return s.result(root), nil
}

// CreateNode returns a private copy of the sub-graph stored at name, building
// and caching it on first use.
func (l *Loader) CreateNode(name string) (*Node, []Diagnostic, error) {
	s := l.newSession()
	n, err := s.LoadSubGraph(name)
	return n, s.diags, err
}

func (l *Loader) readDocument(name string) ([]byte, error) {
	if l.source == nil {
		return nil, fmt.Errorf("%w: %s (loader has no source)", ErrSourceNotFound, name)
	}
	return l.source.ReadDocument(name)
}

func (l *Loader) newSession() *Session {
	return &Session{loader: l}
}

// Session is the state of one build. Constructors receive it to load
// sub-graphs and report problems.
type Session struct {
	loader  *Loader
	diags   []Diagnostic
	loading []string // sub-graph sources currently being built, outermost first
}

// Loader returns the loader running this build.
func (s *Session) Loader() *Loader { return s.loader }

// Logger returns the diagnostics logger.
func (s *Session) Logger() *slog.Logger { return s.loader.logger }

// Diagnostics returns the problems reported so far.
func (s *Session) Diagnostics() []Diagnostic { return s.diags }

// LoadSubGraph returns a private copy of the document at name, built through
// the loader's cache. The problems reported while building that document are
// added to this session's diagnostics whether or not the cache already held
// it; they are logged only by the build that found them. A reference to a
// document that is already being built higher up the stack fails with
// ErrReferenceCycle.
func (s *Session) LoadSubGraph(name string) (*Node, error) {
	if slices.Contains(s.loading, name) {
		return nil, fmt.Errorf("%w: %s", ErrReferenceCycle, name)
	}
	n, diags, err := s.loader.cache.GetOrBuild(name, func() (*Node, []Diagnostic, error) {
		data, err := s.loader.readDocument(name)
		if err != nil {
			return nil, nil, err
		}
		rec, err := ParseDocument(data, FormatForPath(name), name)
		if err != nil {
			return nil, nil, err
		}

		s.loading = append(s.loading, name)
		defer func() { s.loading = s.loading[:len(s.loading)-1] }()

		mark := len(s.diags)
		root := s.build(rec, nil, name+":$")
		if root == nil {
			// The root's own diagnostics stay in the session.
			return nil, nil, fmt.Errorf("sub-graph %s has no root: %w", name, s.diags[mark].Err)
		}
		root.Source = name
		diags := slices.Clone(s.diags[mark:])
		s.diags = s.diags[:mark]
		return root, diags, nil
	})
	s.diags = append(s.diags, diags...)
	return n, err
}

// Report records a non-fatal problem at path and logs it.
func (s *Session) Report(path string, err error) {
	d := Diagnostic{Kind: diagnosticKindOf(err), Path: path, Err: err}
	s.diags = append(s.diags, d)
	s.loader.logger.Warn("canopy: build problem", "diagnostic", d)
}

// build runs the per-record steps: construct, attach, tag, then build and
// lay out each child in document order. It returns nil, after reporting,
// when rec cannot be built; nothing is attached in that case.
func (s *Session) build(rec Record, parent *Node, path string) *Node {
	typ := rec.Type()
	ctor, ok := s.loader.registry.Resolve(typ)
	if !ok {
		s.Report(path, &UnknownTypeError{Type: typ, Path: path})
		return nil
	}

	n, err := ctor.Construct(s, rec)
	if err == nil && n == nil {
		err = errors.New("constructor returned no node")
	}
	if err != nil {
		var ce *ConstructionError
		if !errors.As(err, &ce) {
			err = &ConstructionError{Type: typ, Path: path, Err: err}
		}
		s.Report(path, err)
		return nil
	}
	if n.Kind == "" {
		n.Kind = typ
	}

	if parent != nil {
		parent.AddChild(n)
	}
	n.Tag = rec.Tag()

	for i, crec := range rec.Children() {
		cpath := fmt.Sprintf("%s.children[%d]", path, i)
		child := s.build(crec, n, cpath)
		if child == nil {
			continue
		}
		s.layout(child, crec, cpath)
	}

	if s.loader.debug {
		s.debugCheckTreeDepth(n, path)
		s.debugCheckChildCount(n, path)
	}
	return n
}

func (s *Session) layout(n *Node, rec Record, path string) {
	p, ok := DecodePositioning(rec)
	if !ok {
		return
	}
	if err := ResolveLayout(n, p); err != nil {
		s.Report(path, err)
	}
}

func (s *Session) result(root *Node) *Result {
	return &Result{Root: root, Diagnostics: s.diags}
}
