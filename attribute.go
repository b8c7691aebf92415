package adc

import (
	"fmt"
	"strconv"
)

var (
	// ErrUnsupportedAttribute is returned when a channel does not expose
	// the requested attribute.
	ErrUnsupportedAttribute = fmt.Errorf("attribute not exposed by this channel")
	// ErrReadOnly is returned on any attempt to write a channel attribute
	// of a read-only converter.
	ErrReadOnly = fmt.Errorf("attribute is read-only")
	// ErrUnsupported is returned at attach time when the transport lacks
	// the bus capabilities the driver requires.
	ErrUnsupported = fmt.Errorf("transport does not support required bus operations")
	// ErrReadFailed is the generic failure reported for a raw sample read;
	// the underlying bus error is deliberately not exposed at the
	// attribute boundary.
	ErrReadFailed = fmt.Errorf("channel read failed")
)

// Attribute identifies a readable property of a converter channel.
type Attribute int

const (
	// Raw is the raw conversion result in ADC counts.
	Raw Attribute = iota
	// Scale is the fixed per-LSB scale of the channel.
	Scale
	// SampleRate is the conversion rate of the channel.
	SampleRate
)

func (a Attribute) String() string {
	switch a {
	case Raw:
		return "raw"
	case Scale:
		return "scale"
	case SampleRate:
		return "sampling_frequency"
	default:
		return fmt.Sprintf("attribute(%d)", int(a))
	}
}

// Value is a fixed-point attribute value split into an integer part and a
// fractional part expressed in billionths (nano). Scales smaller than one
// unit are reported as {0, nano}.
type Value struct {
	Int  int `yaml:"int"`
	Nano int `yaml:"nano"`
}

func (v Value) String() string {
	if v.Nano == 0 {
		return strconv.Itoa(v.Int)
	}
	return fmt.Sprintf("%d.%09d", v.Int, v.Nano)
}

// ChannelType tells what physical quantity a channel measures.
type ChannelType int

const (
	Voltage ChannelType = iota
)

func (t ChannelType) String() string {
	switch t {
	case Voltage:
		return "voltage"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Channel describes one converter channel to the consuming framework:
// what it measures, its index and which attributes can be read. Drivers
// expose a static channel list; there is no process-wide registry.
type Channel struct {
	Type       ChannelType `yaml:"type"`
	Index      int         `yaml:"index"`
	Attributes []Attribute `yaml:"attributes"`
}
