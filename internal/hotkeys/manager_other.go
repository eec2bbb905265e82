//go:build !windows

package hotkeys

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

// Manager registers the fixed shortcut set through golang.design/x/hotkey,
// which wraps Carbon event hotkeys on macOS and XGrabKey on X11.
type Manager struct {
	mu       sync.Mutex
	hotkeys  []*hotkey.Hotkey
	stopCh   chan struct{}
	listenWG sync.WaitGroup
}

// NewManager creates a new hotkey manager.
func NewManager() *Manager {
	return &Manager{}
}

// Start registers all four shortcut chords and invokes onAction with the
// fired action on every key press. Any registration failure unregisters the
// chords already registered and is returned to the caller.
func (m *Manager) Start(onAction func(Action)) error {
	if onAction == nil {
		return errors.New("onAction callback is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stopLocked(); err != nil {
		return err
	}

	stopCh := make(chan struct{})
	var registered []*hotkey.Hotkey
	for _, action := range Actions {
		chord := chords[action]
		hk := hotkey.New(chord.modifiers, chord.key)
		if err := hk.Register(); err != nil {
			for _, prev := range registered {
				_ = prev.Unregister()
			}
			return fmt.Errorf("global shortcut registration failed: register %s: %w", action, err)
		}
		registered = append(registered, hk)

		m.listenWG.Add(1)
		go func(hk *hotkey.Hotkey, action Action) {
			defer m.listenWG.Done()
			for {
				select {
				case <-stopCh:
					return
				case _, ok := <-hk.Keydown():
					// Keydown fires on the press transition only.
					if !ok {
						return
					}
					onAction(action)
				}
			}
		}(hk, action)
	}

	m.hotkeys = registered
	m.stopCh = stopCh
	return nil
}

// Stop unregisters every global hotkey and stops the listener goroutines.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	if m.hotkeys == nil {
		return nil
	}

	var errs []error
	for _, hk := range m.hotkeys {
		if err := hk.Unregister(); err != nil {
			errs = append(errs, err)
		}
	}
	close(m.stopCh)
	m.listenWG.Wait()

	m.hotkeys = nil
	m.stopCh = nil
	return errors.Join(errs...)
}
