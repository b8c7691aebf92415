package adc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"integer only", Value{Int: 5500}, "5500"},
		{"sub-unit scale", Value{Int: 0, Nano: 805664}, "0.000805664"},
		{"mixed", Value{Int: 3, Nano: 300_000_000}, "3.300000000"},
		{"zero", Value{}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.String())
		})
	}
}

func TestAttributeString(t *testing.T) {
	assert.Equal(t, "raw", Raw.String())
	assert.Equal(t, "scale", Scale.String())
	assert.Equal(t, "sampling_frequency", SampleRate.String())
	assert.Equal(t, "attribute(42)", Attribute(42).String())
}
