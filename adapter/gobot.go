package adapter

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/adc"
)

var _ adc.I2CBus = &GobotBus{}

// GobotBus adapts a gobot i2c.Connector (NanoPi, Raspberry Pi, ...) to the
// adc.I2CBus contract. Gobot binds a driver to a fixed device address when
// it starts, so one generic driver is kept per address and reused.
type GobotBus struct {
	mx        sync.Mutex
	connector i2c.Connector
	bus       int
	devices   map[byte]*i2c.GenericDriver
}

func NewGobotBus(connector i2c.Connector, bus int) *GobotBus {
	return &GobotBus{
		connector: connector,
		bus:       bus,
		devices:   make(map[byte]*i2c.GenericDriver),
	}
}

// device returns the started driver bound to the given address, creating
// it on first use. Callers hold the adapter mutex.
func (b *GobotBus) device(address byte) (*i2c.GenericDriver, error) {
	if dev, ok := b.devices[address]; ok {
		return dev, nil
	}
	dev := i2c.NewGenericDriver(b.connector, "adc", int(address), func(c i2c.Config) {
		c.SetBus(b.bus)
	})
	if err := dev.Start(); err != nil {
		return nil, fmt.Errorf("could not start i2c driver for %x: %w", address, err)
	}
	b.devices[address] = dev
	return dev, nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	if err := dev.Read(buffer); err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	dev, err := b.device(address)
	if err != nil {
		return err
	}
	if err := dev.Write(buffer); err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// SupportsI2C reports plain transaction support; gobot connectors expose
// the kernel i2cdev interface.
func (b *GobotBus) SupportsI2C() bool {
	return true
}

// Release halts every driver started on this bus.
func (b *GobotBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var last error
	for address, dev := range b.devices {
		if err := dev.Halt(); err != nil {
			last = fmt.Errorf("could not halt i2c driver for %x: %w", address, err)
		}
		delete(b.devices, address)
	}
	return last
}
