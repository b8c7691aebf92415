package mcp3221

import (
	"context"
	"fmt"
	"sync"

	"github.com/mklimuk/adc"
)

// DefaultAddress is the 7-bit I2C address of the A5 address variant, the
// most common one. Other variants occupy 0x48..0x4F.
const DefaultAddress = 0x4D

// MCP3221 represents a Microchip MCP3221 12-bit single-channel ADC.
// See: https://ww1.microchip.com/downloads/en/DeviceDoc/21732D.pdf
//
// The device has no registers and no configuration: every read transaction
// returns the latest conversion as two big-endian bytes of which the low
// 12 bits are data. The converter is read-only end to end.
//
// Usage: Instantiate with Attach, then call ReadChannel(ctx, 0) or go
// through ReadAttribute for framework-style access. All methods are safe
// for concurrent use; a mutex serializes bus transactions so at most one
// is in flight per device.
type MCP3221 struct {
	mx        sync.Mutex
	transport adc.I2CBus
	addr      byte
	buf       []byte
}

type Config struct {
	Address byte
}

type ConfigOption func(*Config)

// WithAddress overrides the default 0x4D device address for the other
// address-select variants.
func WithAddress(address byte) ConfigOption {
	return func(c *Config) {
		c.Address = address
	}
}

// Attach binds the converter to its bus transport. It fails with
// adc.ErrUnsupported when the transport is missing or cannot issue plain
// I2C transactions. Once attached the device stays attached until Detach.
func Attach(transport adc.I2CBus, opts ...ConfigOption) (*MCP3221, error) {
	if transport == nil {
		return nil, fmt.Errorf("mcp3221: no transport: %w", adc.ErrUnsupported)
	}
	if caps, ok := transport.(adc.Capabilities); ok && !caps.SupportsI2C() {
		return nil, fmt.Errorf("mcp3221: transport has no plain I2C support: %w", adc.ErrUnsupported)
	}
	config := &Config{
		Address: DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	return &MCP3221{
		transport: transport,
		addr:      config.Address,
		buf:       make([]byte, 2),
	}, nil
}

// Detach gives the bus transport back. The device must not be used
// afterwards.
func (d *MCP3221) Detach(ctx context.Context) error {
	return d.transport.Release(ctx)
}

// Channels describes the converter to the consuming framework: a single
// indexed voltage channel exposing raw, scale and sampling frequency,
// all read-only.
func Channels() []adc.Channel {
	return []adc.Channel{
		{
			Type:       adc.Voltage,
			Index:      0,
			Attributes: []adc.Attribute{adc.Raw, adc.Scale, adc.SampleRate},
		},
	}
}

// ReadChannel performs one conversion read and returns the sign-extended
// sample in ADC counts, in [-2048, 2047]. The sole supported channel is 0.
func (d *MCP3221) ReadChannel(ctx context.Context, channel int) (int, error) {
	if channel != 0 {
		return 0, fmt.Errorf("mcp3221: channel %d out of range (single channel device)", channel)
	}
	return d.readSample(ctx)
}

// readSample issues the two-byte read transaction and decodes it. The
// read buffer is shared device state, so decoding happens under the same
// lock as the transaction.
func (d *MCP3221) readSample(ctx context.Context) (int, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	err := d.transport.ReadFromAddr(ctx, d.addr, d.buf)
	if err != nil {
		return 0, fmt.Errorf("mcp3221: sample read failed: %w", err)
	}
	raw, err := decodeRaw(d.buf)
	if err != nil {
		return 0, err
	}
	return signExtend12(raw), nil
}

// ReadNanovolts performs one conversion read and returns the input
// voltage in nanovolts, using the fixed per-LSB scale.
func (d *MCP3221) ReadNanovolts(ctx context.Context) (int64, error) {
	sample, err := d.readSample(ctx)
	if err != nil {
		return 0, err
	}
	return int64(sample) * scaleNanovolts, nil
}

// ReadAttribute reads one channel attribute the way the consuming
// framework does: raw goes through the bus, scale and sampling frequency
// come from the pure converter constants. A failed raw read surfaces as
// the generic adc.ErrReadFailed; the underlying bus error is not exposed
// at this boundary.
func (d *MCP3221) ReadAttribute(ctx context.Context, channel int, attr adc.Attribute) (adc.Value, error) {
	switch attr {
	case adc.Raw:
		sample, err := d.ReadChannel(ctx, channel)
		if err != nil {
			return adc.Value{}, adc.ErrReadFailed
		}
		return adc.Value{Int: sample}, nil
	case adc.Scale:
		return Scale(), nil
	case adc.SampleRate:
		return SampleRate(), nil
	default:
		return adc.Value{}, adc.ErrUnsupportedAttribute
	}
}

// WriteAttribute always fails with adc.ErrReadOnly: the device has no
// configurable scale or sampling rate and this driver never transmits.
// No bus transaction is issued.
func (d *MCP3221) WriteAttribute(ctx context.Context, channel int, attr adc.Attribute, value adc.Value) error {
	return adc.ErrReadOnly
}
