package media

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks the tuner devices a process currently exposes, by
// name. Drivers register themselves when their probe succeeds and
// unregister on removal.
type Registry struct {
	mu      sync.Mutex
	devices map[string]Device
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]Device)}
}

// Register adds a device under the given name.
func (r *Registry) Register(name string, dev Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDevice, name)
	}
	r.devices[name] = dev
	return nil
}

// Unregister removes the device with the given name.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchDevice, name)
	}
	delete(r.devices, name)
	return nil
}

// Lookup returns the device registered under the given name.
func (r *Registry) Lookup(name string) (Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[name]
	return dev, ok
}

// Names lists the registered device names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.devices))
	for name := range r.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
