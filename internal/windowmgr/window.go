package windowmgr

import "sync"

// Window is a handle to a named application window. Implementations wrap
// whatever the OS windowing layer exposes; the manager never caches state
// derived from a handle across operations.
type Window interface {
	// Visible reports whether the window is currently shown.
	Visible() (bool, error)
	Show() error
	Hide() error
	// Focus raises the window and gives it input focus.
	Focus() error
}

// Placeable is implemented by windows whose geometry the shell controls.
// The overlay window is Placeable; the main dashboard window is not.
type Placeable interface {
	Window
	SetSize(width, height int) error
	// Size returns the current outer size in physical pixels.
	Size() (width, height int, err error)
	SetPosition(x, y int) error
	SetAlwaysOnTop(onTop bool) error
	// Screen returns the size of the screen the window is currently on.
	Screen() (width, height int, err error)
}

// Registry maps window names to handles. Windows are registered once during
// startup; lookups happen on every operation so a re-registered handle takes
// effect immediately.
type Registry struct {
	mu      sync.RWMutex
	windows map[string]Window
}

// NewRegistry creates an empty window registry.
func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]Window)}
}

// Register adds or replaces the handle for name.
func (r *Registry) Register(name string, w Window) {
	r.mu.Lock()
	r.windows[name] = w
	r.mu.Unlock()
}

// Lookup returns the handle registered under name.
func (r *Registry) Lookup(name string) (Window, bool) {
	r.mu.RLock()
	w, ok := r.windows[name]
	r.mu.RUnlock()
	return w, ok
}
