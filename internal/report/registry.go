package report

import (
	"context"
)

// Query carries everything an adapter may need for one request: the original
// query parameters plus the resolved geography.
type Query struct {
	Postcode string
	Number   string
	Lat      float64
	Lon      float64
	LSOA     string
	MSOA     string
}

// FetchFunc is one registered panel fetch. It returns the panel value or an
// error; the aggregator converts errors (and panics) into error markers, so
// a fetch can never fail the request.
type FetchFunc func(ctx context.Context, q Query) (any, error)

// Registry is the fixed capability table mapping panel names to adapters,
// built once at process start. An unregistered panel simply never appears in
// the set; registration order is preserved for deterministic assembly.
type Registry struct {
	order    []string
	fetchers map[string]FetchFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]FetchFunc)}
}

// Register adds a panel fetcher under name. Re-registering a name replaces
// the fetcher but keeps its original position.
func (r *Registry) Register(name string, fn FetchFunc) {
	if _, exists := r.fetchers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.fetchers[name] = fn
}

// Names returns the registered panel names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) fetcher(name string) (FetchFunc, bool) {
	fn, ok := r.fetchers[name]
	return fn, ok
}
