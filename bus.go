package adc

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// I2CBus is the transport contract consumed by the drivers. A single call
// maps to a single bus transaction; implementations return transport errors
// (NACK, timeout, device absent) unchanged and never retry on behalf of the
// caller.
type I2CBus interface {
	// ReadFromAddr performs one blocking read transaction of len(buffer)
	// bytes from the device at the given 7-bit address. Bytes are stored
	// in transmission (big-endian) order.
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
	// WriteToAddr performs one blocking write transaction to the device
	// at the given 7-bit address.
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	// Release gives the bus back to the transport (stuck-engine recovery
	// on bridge adapters, no-op on memory-mapped buses).
	Release(ctx context.Context) error
}

// Capabilities is optionally implemented by transports that can report
// which bus features they support. Drivers check it once at attach time.
type Capabilities interface {
	// SupportsI2C reports whether the transport can issue plain I2C
	// read/write transactions.
	SupportsI2C() bool
}
