package opfs

import (
	"context"
	"fmt"
	"sync"

	"github.com/blackcoderx/postmaiden/pkg/errs"
)

type registryKey struct {
	filename string
	subdir   string
}

// Registry memoizes one FileAdapter per (filename, subdir) so repeated
// accesses to the same logical file reuse the resolved adapter.
// It is owned by the process-wide app context; Reset drops every entry.
type Registry struct {
	root *Root

	mu       sync.Mutex
	adapters map[registryKey]any
}

// NewRegistry creates an empty registry bound to root.
func NewRegistry(root *Root) *Registry {
	return &Registry{
		root:     root,
		adapters: make(map[registryKey]any),
	}
}

// Root returns the sandbox the registry resolves adapters against.
func (r *Registry) Root() *Root {
	return r.root
}

// Len returns the number of memoized adapters.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.adapters)
}

// Reset forgets every memoized adapter.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = make(map[registryKey]any)
}

// Singleton returns the memoized adapter for opts, constructing it on first use.
// A failed construction is not memoized. Options only apply to the first construction.
func Singleton[T any](ctx context.Context, reg *Registry, opts FileOptions, options ...FileAdapterOption[T]) (*FileAdapter[T], error) {
	key := registryKey{filename: opts.Filename, subdir: opts.Subdir}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if existing, ok := reg.adapters[key]; ok {
		adapter, ok := existing.(*FileAdapter[T])
		if !ok {
			return nil, errs.New(errs.CodeInternal, fmt.Sprintf("adapter for %s was registered with a different type", opts.Filename))
		}
		return adapter, nil
	}

	adapter, err := NewFileAdapter[T](ctx, reg.root, opts, options...)
	if err != nil {
		return nil, err
	}
	reg.adapters[key] = adapter
	return adapter, nil
}
