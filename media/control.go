// Package media models the slice of a media-control host that a tuner
// driver needs: a driver registers its controls with a Handler and
// itself with a Registry, and the host changes control values and reads
// tuner state through those.
//
// Current control values live in the Handler and only there. Drivers
// keep no copy of their own and read values back on demand, for example
// to decide whether to power the receiver back up on resume.
package media

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Errors reported by the control handler and the device registry.
var (
	// ErrInvalidIndex is returned by devices asked about an audio input
	// or tuner they do not have.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrNoSuchControl is returned for control IDs nobody registered.
	ErrNoSuchControl = errors.New("no such control")

	// ErrValueOutOfRange is returned for control values outside the
	// range declared at registration.
	ErrValueOutOfRange = errors.New("control value out of range")

	// ErrDuplicateControl is recorded when a control ID is registered
	// twice with the same handler.
	ErrDuplicateControl = errors.New("control already registered")

	// ErrDuplicateDevice is returned when a device name is registered
	// twice with the same registry.
	ErrDuplicateDevice = errors.New("device already registered")

	// ErrNoSuchDevice is returned when unregistering or looking up a
	// name the registry does not know.
	ErrNoSuchDevice = errors.New("no such device")
)

// CtrlID identifies a control class.
type CtrlID int

// The control classes a tuner device can register.
const (
	CtrlAudioMute CtrlID = iota + 1
	CtrlAudioVolume
	CtrlDeemphasis
)

type ctrlKind int

const (
	kindBool ctrlKind = iota
	kindInt
	kindMenu
)

// Ctrl is one registered control. Its setter variant is picked when the
// control is registered and invoked for every value change.
type Ctrl struct {
	ID   CtrlID
	Name string

	Min, Max, Step, Default int32

	kind     ctrlKind
	skipMask uint32 // menu entries that exist but cannot be selected

	val     int32
	setBool func(bool) error
	setInt  func(int32) error
}

// Handler owns the control set of one device: registration, default
// values, current values and change dispatch. All value changes are
// serialized by the handler's lock.
type Handler struct {
	mu    sync.Mutex
	ctrls map[CtrlID]*Ctrl
	order []*Ctrl
	err   error // first registration failure
}

// NewHandler creates an empty control handler.
func NewHandler() *Handler {
	return &Handler{ctrls: make(map[CtrlID]*Ctrl)}
}

// add validates the shared control fields and stores the control.
// Registration failures are sticky: the first one is kept for Err and
// the failed control is not stored.
func (h *Handler) add(c *Ctrl) *Ctrl {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	switch {
	case h.ctrls[c.ID] != nil:
		err = fmt.Errorf("%w: %s", ErrDuplicateControl, c.Name)
	case c.Min > c.Max || c.Step <= 0:
		err = fmt.Errorf("%s: invalid range %d ... %d step %d", c.Name, c.Min, c.Max, c.Step)
	case c.Default < c.Min || c.Default > c.Max:
		err = fmt.Errorf("%w: %s default %d", ErrValueOutOfRange, c.Name, c.Default)
	case c.kind == kindMenu && c.skipMask&(1<<uint(c.Default)) != 0:
		err = fmt.Errorf("%s: default %d is not a selectable menu entry", c.Name, c.Default)
	}
	if err != nil {
		if h.err == nil {
			h.err = err
		}
		return nil
	}

	c.val = c.Default
	h.ctrls[c.ID] = c
	h.order = append(h.order, c)
	return c
}

// NewBoolCtrl registers a boolean control.
func (h *Handler) NewBoolCtrl(id CtrlID, name string, def bool, set func(bool) error) *Ctrl {
	var defVal int32
	if def {
		defVal = 1
	}
	return h.add(&Ctrl{
		ID: id, Name: name,
		Min: 0, Max: 1, Step: 1, Default: defVal,
		kind:    kindBool,
		setBool: set,
	})
}

// NewIntCtrl registers an integer control with the given range.
func (h *Handler) NewIntCtrl(id CtrlID, name string, min, max, step, def int32, set func(int32) error) *Ctrl {
	return h.add(&Ctrl{
		ID: id, Name: name,
		Min: min, Max: max, Step: step, Default: def,
		kind:   kindInt,
		setInt: set,
	})
}

// NewMenuCtrl registers a menu control with the entries 0 through max.
// Entries whose bit is set in skipMask exist but cannot be selected.
func (h *Handler) NewMenuCtrl(id CtrlID, name string, max int32, skipMask uint32, def int32, set func(int32) error) *Ctrl {
	return h.add(&Ctrl{
		ID: id, Name: name,
		Min: 0, Max: max, Step: 1, Default: def,
		kind:     kindMenu,
		skipMask: skipMask,
		setInt:   set,
	})
}

// Err returns the first registration failure, if any.
func (h *Handler) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// dispatch invokes the setter variant picked at registration time.
func dispatch(c *Ctrl, val int32) error {
	if c.kind == kindBool {
		return c.setBool(val != 0)
	}
	return c.setInt(val)
}

// Setup pushes every control's default value to its device, in
// registration order. All failures are reported, not just the first.
func (h *Handler) Setup() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var result *multierror.Error
	for _, c := range h.order {
		if err := dispatch(c, c.Default); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	return result.ErrorOrNil()
}

// Set validates a new value against the control's declared range and
// hands it to the owning device. The stored value only changes once the
// device has accepted the new one; on failure the previous value stays
// current.
func (h *Handler) Set(id CtrlID, val int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := h.ctrls[id]
	if c == nil {
		return ErrNoSuchControl
	}
	if val < c.Min || val > c.Max || (val-c.Min)%c.Step != 0 {
		return fmt.Errorf("%w: %s = %d", ErrValueOutOfRange, c.Name, val)
	}
	if c.kind == kindMenu && c.skipMask&(1<<uint(val)) != 0 {
		return fmt.Errorf("%w: %s menu entry %d cannot be selected", ErrValueOutOfRange, c.Name, val)
	}

	if err := dispatch(c, val); err != nil {
		return err
	}
	c.val = val
	return nil
}

// Value returns a control's current value.
func (h *Handler) Value(id CtrlID) (int32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := h.ctrls[id]
	if c == nil {
		return 0, ErrNoSuchControl
	}
	return c.val, nil
}

// Free drops all registered controls.
func (h *Handler) Free() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ctrls = make(map[CtrlID]*Ctrl)
	h.order = nil
	h.err = nil
}
