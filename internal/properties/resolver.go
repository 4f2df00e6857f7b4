package properties

import (
	"context"
	"strings"
	"sync"

	"github.com/centraldesktop/fattailsync/internal/fattail"
	"github.com/centraldesktop/fattailsync/pkg/errors"
)

// Lister returns the dynamic property definitions for a record kind.
type Lister interface {
	GetDynamicProperties(ctx context.Context, kind fattail.RecordKind) ([]fattail.DynamicProperty, error)
}

// Resolver maps property display names to ids. Definitions are fetched once
// per kind and reused for the life of the Resolver.
type Resolver struct {
	lister Lister

	mu    sync.Mutex
	cache map[fattail.RecordKind][]fattail.DynamicProperty
}

// NewResolver creates a Resolver backed by lister.
func NewResolver(lister Lister) *Resolver {
	return &Resolver{lister: lister, cache: make(map[fattail.RecordKind][]fattail.DynamicProperty)}
}

// ResolveID finds the id of the property called name on records of kind.
// The display name is matched first, then the internal name.
func (r *Resolver) ResolveID(ctx context.Context, kind fattail.RecordKind, name string) (int, bool, error) {
	defs, err := r.definitions(ctx, kind)
	if err != nil {
		return 0, false, err
	}
	for _, d := range defs {
		if d.DisplayName == name {
			return d.DynamicPropertyID, true, nil
		}
	}
	for _, d := range defs {
		if strings.EqualFold(d.Name, name) {
			return d.DynamicPropertyID, true, nil
		}
	}
	return 0, false, nil
}

// MustResolveID is ResolveID with a missing property reported as a ConfigError.
func (r *Resolver) MustResolveID(ctx context.Context, kind fattail.RecordKind, name string) (int, error) {
	id, found, err := r.ResolveID(ctx, kind, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.NewConfigError("properties", "dynamic property "+name+" not defined for "+string(kind), nil)
	}
	return id, nil
}

func (r *Resolver) definitions(ctx context.Context, kind fattail.RecordKind) ([]fattail.DynamicProperty, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if defs, ok := r.cache[kind]; ok {
		return defs, nil
	}
	defs, err := r.lister.GetDynamicProperties(ctx, kind)
	if err != nil {
		return nil, err
	}
	r.cache[kind] = defs
	return defs, nil
}
