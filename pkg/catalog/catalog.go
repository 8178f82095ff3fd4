// Package catalog provides the symbol catalog: the queryable space of types,
// callables, variables and node kinds the engine resolves against.
package catalog

import (
	"log/slog"
	"strings"

	"github.com/graphsmith/graphsmith/pkg/models"
)

// Catalog indexes type descriptors by name and symbolic path, and callables
// and variables by their owner type. It is populated at startup from a
// manifest; the engine never mutates it.
type Catalog struct {
	logger      *slog.Logger
	types       map[string]*models.TypeDescriptor
	typesByPath map[string]*models.TypeDescriptor
	callables   map[string][]*models.CallableDescriptor
	variables   map[string][]*models.VariableDescriptor
}

func NewCatalog(log *slog.Logger) *Catalog {
	return &Catalog{
		logger:      log,
		types:       make(map[string]*models.TypeDescriptor),
		typesByPath: make(map[string]*models.TypeDescriptor),
		callables:   make(map[string][]*models.CallableDescriptor),
		variables:   make(map[string][]*models.VariableDescriptor),
	}
}

func (c *Catalog) RegisterType(t *models.TypeDescriptor) {
	c.types[t.Name] = t
	if t.Path != "" {
		c.typesByPath[t.Path] = t
	}
}

func (c *Catalog) RegisterCallable(fn *models.CallableDescriptor) {
	c.callables[fn.OwnerType] = append(c.callables[fn.OwnerType], fn)
}

func (c *Catalog) RegisterVariable(v *models.VariableDescriptor) {
	c.variables[v.OwnerType] = append(c.variables[v.OwnerType], v)
}

// LookupType finds a type by its canonical name.
func (c *Catalog) LookupType(name string) (*models.TypeDescriptor, bool) {
	t, ok := c.types[name]

	return t, ok
}

// LookupTypeByPath finds a type by its symbolic load path.
func (c *Catalog) LookupTypeByPath(path string) (*models.TypeDescriptor, bool) {
	t, ok := c.typesByPath[path]

	return t, ok
}

// LookupCallable finds a callable by exact name on the given type only; it
// does not consult ancestors.
func (c *Catalog) LookupCallable(typeName, name string) (*models.CallableDescriptor, bool) {
	for _, fn := range c.callables[typeName] {
		if fn.Name == name {
			return fn, true
		}
	}

	return nil, false
}

// LookupCallableFold finds a callable by case-insensitive name on the given
// type only.
func (c *Catalog) LookupCallableFold(typeName, name string) (*models.CallableDescriptor, bool) {
	for _, fn := range c.callables[typeName] {
		if strings.EqualFold(fn.Name, name) {
			return fn, true
		}
	}

	return nil, false
}

// LookupVariable finds a variable by exact name on the given type or any of
// its ancestors.
func (c *Catalog) LookupVariable(typeName, name string) (*models.VariableDescriptor, bool) {
	for _, t := range c.Ancestry(typeName) {
		for _, v := range c.variables[t.Name] {
			if v.Name == name {
				return v, true
			}
		}
	}

	return nil, false
}

// Ancestry returns the type and its ancestors, most-derived first. Unknown
// type names yield an empty chain; cycles in parent links are cut.
func (c *Catalog) Ancestry(typeName string) []*models.TypeDescriptor {
	chain := make([]*models.TypeDescriptor, 0, 4)
	seen := make(map[string]bool)

	for name := typeName; name != "" && !seen[name]; {
		seen[name] = true

		t, ok := c.types[name]
		if !ok {
			break
		}

		chain = append(chain, t)
		name = t.Parent
	}

	return chain
}

// IsAssignable reports whether a value of type `from` can be assigned to a
// reference declared as type `to`. Equal names are assignable; otherwise
// `to` must appear in `from`'s ancestor chain.
func (c *Catalog) IsAssignable(from, to string) bool {
	if from == to {
		return true
	}

	for _, t := range c.Ancestry(from) {
		if t.Name == to {
			return true
		}
	}

	return false
}
