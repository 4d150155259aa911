package hxfacet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pthm/hxfacet/lib/rules"
)

// validate is the shared validator instance.
var validate = validator.New()

// Registry holds component classes by name.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*ComponentClass
	ctx     context.Context

	// FacetOptions are applied to every facet of classes created after
	// they are set.
	FacetOptions []FacetOption
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*ComponentClass),
		ctx:     context.Background(),
	}
}

var (
	defaultMu  sync.RWMutex
	defaultReg = NewRegistry()
)

// Default returns the registry used by the package-level helpers.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultReg
}

// SetDefault replaces the registry used by the package-level helpers.
func SetDefault(reg *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultReg = reg
}

// CreateComponentClass creates and registers a class in the default
// registry.
func CreateComponentClass(cfg Config) (*ComponentClass, error) {
	return Default().Create(cfg)
}

// WithRegistryContext sets the context carried by signals of components
// created from reg.
func (reg *Registry) WithRegistryContext(ctx context.Context) *Registry {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.ctx = ctx
	return reg
}

// Create validates cfg, parses its rule tables and registers the class.
// Configuration errors surface here rather than on first use.
func (reg *Registry) Create(cfg Config) (*ComponentClass, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	cc := &ComponentClass{
		name: cfg.ClassName,
		opts: append([]FacetOption(nil), reg.FacetOptions...),
		ctx:  reg.ctx,
	}
	if cfg.Facets.CSS != nil {
		table, err := rules.Parse(cfg.Facets.CSS.Classes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.ClassName, wrapRuleError("", err))
		}
		cc.css = &table
	}

	if _, exists := reg.classes[cc.name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrClassExists, cc.name)
	}
	reg.classes[cc.name] = cc
	return cc, nil
}

// MustCreate is Create that panics on configuration errors.
func (reg *Registry) MustCreate(cfg Config) *ComponentClass {
	cc, err := reg.Create(cfg)
	if err != nil {
		panic(fmt.Sprintf("hxfacet: %v", err))
	}
	return cc
}

// Get returns the class registered under name.
func (reg *Registry) Get(name string) (*ComponentClass, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	cc, ok := reg.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, name)
	}
	return cc, nil
}

// Names returns the registered class names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.classes))
	for n := range reg.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CreateOnElement creates a component of the class named by the markup's
// BindAttr.
func (reg *Registry) CreateOnElement(container *Element, markup string) (*Component, error) {
	el, err := ParseElement(markup)
	if err != nil {
		return nil, err
	}
	bind, ok := el.Attr(BindAttr)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s attribute", ErrInvalidMarkup, BindAttr)
	}
	class, _, _ := strings.Cut(bind, ":")
	cc, err := reg.Get(class)
	if err != nil {
		return nil, err
	}
	return cc.CreateOnElement(container, markup)
}
