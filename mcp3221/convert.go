package mcp3221

import (
	"encoding/binary"
	"fmt"

	"github.com/mklimuk/adc"
)

// Conversion constants per datasheet: 12-bit resolution against a 3.3V
// reference, fixed 5.5 ksps conversion rate. The per-LSB scale is a
// hardware constant, never derived from a sample at runtime. Truncating
// integer division is the documented contract of the scale attribute.
const (
	referenceNanovolts = 3_300_000_000
	resolutionBits     = 12
	scaleNanovolts     = referenceNanovolts / (1 << resolutionBits) // 805664 nV per LSB
	sampleRateSps      = 5500
)

const signBit = 1 << (resolutionBits - 1)

// decodeRaw interprets a two-byte bus read as a big-endian 16-bit word.
// A short buffer is a programming error, not a runtime condition of a
// correctly sized transaction.
func decodeRaw(buf []byte) (uint16, error) {
	if len(buf) < 2 {
		return 0, fmt.Errorf("mcp3221: short sample buffer: %d bytes", len(buf))
	}
	return binary.BigEndian.Uint16(buf[:2]), nil
}

// signExtend12 sign-extends a raw word from bit 11. Bits 12-15 are
// don't-care on the wire and are discarded regardless of their value.
func signExtend12(raw uint16) int {
	value := int(raw & (1<<resolutionBits - 1))
	if value&signBit != 0 {
		value -= 1 << resolutionBits
	}
	return value
}

// Scale returns the fixed per-LSB channel scale as a fixed-point value:
// integer part 0, fractional part 805664 nV.
func Scale() adc.Value {
	return adc.Value{Int: 0, Nano: scaleNanovolts}
}

// SampleRate returns the fixed conversion rate in samples per second.
func SampleRate() adc.Value {
	return adc.Value{Int: sampleRateSps}
}

// AvailableSampleRates lists the conversion rates the device supports,
// in the framework's discoverable string form.
func AvailableSampleRates() string {
	return SampleRate().String()
}

// AvailableScales lists the channel scales the device supports, in the
// framework's discoverable string form.
func AvailableScales() string {
	return Scale().String()
}
