// Package resolver locates programs, graphs and callables from the textual
// identifiers external controllers supply. Identifiers arrive without
// knowledge of prefixing or casing conventions, so callable resolution runs a
// layered fallback chain: each step is a strictly narrower guess than a
// wildcard search.
package resolver

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/graphsmith/graphsmith/pkg/catalog"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// ProgramStore is the asset-system capability the resolver consults. The
// engine never creates or destroys programs.
type ProgramStore interface {
	ProgramByName(name string) (*models.Program, bool)
}

// wellKnownAliases maps target-type spellings that match none of the
// conventional forms to their symbolic load paths.
var wellKnownAliases = map[string]string{
	"GameplayStatics":     "/Script/Engine.GameplayStatics",
	"UGameplayStatics":    "/Script/Engine.GameplayStatics",
	"KismetMathLibrary":   "/Script/Engine.KismetMathLibrary",
	"KismetSystemLibrary": "/Script/Engine.KismetSystemLibrary",
}

// Resolver resolves textual identifiers against the symbol catalog and the
// program store.
type Resolver struct {
	logger   *slog.Logger
	catalog  *catalog.Catalog
	programs ProgramStore
}

func NewResolver(log *slog.Logger, cat *catalog.Catalog, programs ProgramStore) *Resolver {
	return &Resolver{
		logger:   log,
		catalog:  cat,
		programs: programs,
	}
}

// ResolveProgram finds a registered program by name.
func (r *Resolver) ResolveProgram(name string) (*models.Program, error) {
	program, ok := r.programs.ProgramByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, name)
	}

	return program, nil
}

// ResolveGraph finds the program's graph for the given role. An empty role
// selects the default event graph, which is created on first access; other
// roles must already exist.
func (r *Resolver) ResolveGraph(program *models.Program, role string) (*models.Graph, error) {
	if role == "" || models.GraphRole(role) == models.DefaultGraphRole {
		return program.EnsureGraph("EventGraph", models.DefaultGraphRole), nil
	}

	graph := program.GraphByRole(models.GraphRole(role))
	if graph == nil {
		return nil, fmt.Errorf("%w: program %s has no %q graph", ErrGraphNotFound, program.Name, role)
	}

	return graph, nil
}

// ResolveTargetType resolves a target-type hint to a concrete type. It tries,
// in order: the literal name, the conventional "U" class prefix, the implicit
// Component-suffix family, and finally a small table of well-known aliases.
// The returned slice lists every spelling that was tried.
func (r *Resolver) ResolveTargetType(hint string) (*models.TypeDescriptor, []string) {
	searched := []string{hint}

	if t, ok := r.catalog.LookupType(hint); ok {
		return t, searched
	}

	if !strings.HasPrefix(hint, "U") {
		prefixed := "U" + hint
		searched = append(searched, prefixed)

		if t, ok := r.catalog.LookupType(prefixed); ok {
			return t, searched
		}
	}

	for _, variant := range []string{"U" + hint + "Component", hint + "Component"} {
		searched = append(searched, variant)

		if t, ok := r.catalog.LookupType(variant); ok {
			return t, searched
		}
	}

	if path, ok := wellKnownAliases[hint]; ok {
		searched = append(searched, path)

		if t, ok := r.catalog.LookupTypeByPath(path); ok {
			return t, searched
		}
	}

	return nil, searched
}

// ResolveCallable locates a callable descriptor by name. If targetHint is
// non-empty it is resolved to a type first and that type's ancestor chain is
// searched, exact match before case-insensitive at each level. When the hint
// path yields nothing, the program's own behavior type is the last resort.
func (r *Resolver) ResolveCallable(program *models.Program, name, targetHint string) (*models.CallableDescriptor, error) {
	searched := make([]string, 0, 4)

	if targetHint != "" {
		target, tried := r.ResolveTargetType(targetHint)
		if target == nil {
			searched = append(searched, tried...)
		} else {
			for _, level := range r.catalog.Ancestry(target.Name) {
				searched = append(searched, level.Name)

				if fn, ok := r.catalog.LookupCallable(level.Name, name); ok {
					return fn, nil
				}

				if fn, ok := r.catalog.LookupCallableFold(level.Name, name); ok {
					r.logger.Debug("Resolved callable by case-insensitive match",
						"requested", name, "matched", fn.Name, "type", level.Name)

					return fn, nil
				}
			}
		}
	}

	if program != nil && program.BehaviorType != "" {
		searched = append(searched, program.BehaviorType)

		if fn, ok := r.catalog.LookupCallable(program.BehaviorType, name); ok {
			return fn, nil
		}
	}

	return nil, &SymbolError{Name: name, SearchedTypes: searched, Err: ErrSymbolNotFound}
}

// ResolveVariable finds a variable declared on the program's behavior type.
// Missing variables are not an error here: the engine trusts caller-supplied
// variable names and lets failures surface at connection time instead.
func (r *Resolver) ResolveVariable(program *models.Program, name string) (*models.VariableDescriptor, bool) {
	if program == nil || program.BehaviorType == "" {
		return nil, false
	}

	return r.catalog.LookupVariable(program.BehaviorType, name)
}
