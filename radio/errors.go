package radio

import "errors"

// Errors returned by the driver. Transport failures reported by the bus
// itself propagate unchanged instead.
var (
	// ErrTransport means the bus completed fewer bytes of a transaction
	// than requested.
	ErrTransport = errors.New("i2c transfer completed short")

	// ErrRange means a requested value is outside what the chip can
	// represent. The chip is left untouched.
	ErrRange = errors.New("value out of range")

	// ErrDeviceMismatch means the chip found during probe is not an
	// RDA58xx family receiver.
	ErrDeviceMismatch = errors.New("chip ID mismatch")
)
