package i2c

import (
	"context"
	"fmt"

	"github.com/mklimuk/adc"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var _ adc.I2CBus = &GenericBus{}

// GenericBus exposes a periph.io host bus (e.g. /dev/i2c-1 on a Pi) as an
// adc.I2CBus. Each call maps to a single Tx transaction.
type GenericBus struct {
	bus i2c.BusCloser
}

// NewGenericBus initializes the periph host and opens the named bus
// ("1", "/dev/i2c-2", ...). An empty name opens the first available bus.
func NewGenericBus(dev string) (*GenericBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// SupportsI2C reports plain transaction support; always true for a kernel
// i2cdev bus.
func (b *GenericBus) SupportsI2C() bool {
	return true
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
