package mcp3221

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mklimuk/adc"
)

// MockI2CBus is a mock implementation of adc.I2CBus using testify/mock.
// It tracks the maximum number of concurrent bus operations so tests can
// verify that the device mutex serializes transactions.
type MockI2CBus struct {
	mock.Mock
	concurrentOps int64
	maxConcurrent int64
	i2c           bool
}

func (m *MockI2CBus) SupportsI2C() bool {
	return m.i2c
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	concurrent := atomic.AddInt64(&m.concurrentOps, 1)
	if concurrent > atomic.LoadInt64(&m.maxConcurrent) {
		atomic.StoreInt64(&m.maxConcurrent, concurrent)
	}

	args := m.Called(ctx, address, buffer)
	if args.Get(0) != nil {
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
			copy(buffer, data)
		}
	}

	atomic.AddInt64(&m.concurrentOps, -1)
	return args.Error(1)
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newMockBus() *MockI2CBus {
	return &MockI2CBus{i2c: true}
}

func TestAttach(t *testing.T) {
	t.Run("nil transport", func(t *testing.T) {
		d, err := Attach(nil)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, adc.ErrUnsupported)
	})

	t.Run("transport without plain I2C", func(t *testing.T) {
		bus := new(MockI2CBus) // i2c is false
		d, err := Attach(bus)
		assert.Nil(t, d)
		assert.ErrorIs(t, err, adc.ErrUnsupported)
	})

	t.Run("default address", func(t *testing.T) {
		bus := newMockBus()
		d, err := Attach(bus)
		assert.NoError(t, err)
		assert.Equal(t, byte(DefaultAddress), d.addr)
	})

	t.Run("address override", func(t *testing.T) {
		bus := newMockBus()
		d, err := Attach(bus, WithAddress(0x48))
		assert.NoError(t, err)
		assert.Equal(t, byte(0x48), d.addr)
	})
}

func TestReadChannel(t *testing.T) {
	tests := []struct {
		name     string
		response []byte
		expected int
	}{
		{
			name:     "bit 11 clear passes through",
			response: []byte{0x00, 0x01},
			expected: 1,
		},
		{
			name:     "bit 11 set yields minimum",
			response: []byte{0x08, 0x00},
			expected: -2048,
		},
		{
			name:     "zero",
			response: []byte{0x00, 0x00},
			expected: 0,
		},
		{
			name:     "maximum positive",
			response: []byte{0x07, 0xFF},
			expected: 2047,
		},
		{
			name:     "upper nibble discarded",
			response: []byte{0xF0, 0x01},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newMockBus()
			bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
				Return(tt.response, nil).Once()

			d, err := Attach(bus)
			assert.NoError(t, err)

			sample, err := d.ReadChannel(context.Background(), 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, sample)

			bus.AssertExpectations(t)
		})
	}
}

func TestReadChannel_OutOfRange(t *testing.T) {
	bus := newMockBus()
	d, err := Attach(bus)
	assert.NoError(t, err)

	_, err = d.ReadChannel(context.Background(), 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
}

func TestReadChannel_BusError(t *testing.T) {
	bus := newMockBus()
	busErr := errors.New("i2c read failed")
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(nil, busErr).Once()

	d, err := Attach(bus)
	assert.NoError(t, err)

	_, err = d.ReadChannel(context.Background(), 0)
	assert.ErrorIs(t, err, busErr)

	// the lock must be released on the failure path: a follow-up read
	// has to go through without deadlocking
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return([]byte{0x00, 0x2A}, nil).Once()

	sample, err := d.ReadChannel(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, 42, sample)

	bus.AssertExpectations(t)
}

func TestReadChannel_Serialized(t *testing.T) {
	bus := newMockBus()
	const numOps = 8
	for range numOps {
		bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
			Return([]byte{0x01, 0x00}, nil).Once()
	}

	d, err := Attach(bus)
	assert.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(numOps)
	for range numOps {
		go func() {
			defer wg.Done()
			sample, err := d.ReadChannel(context.Background(), 0)
			assert.NoError(t, err)
			assert.Equal(t, 256, sample)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&bus.maxConcurrent), int64(1), "mutex should serialize bus transactions")
	bus.AssertNumberOfCalls(t, "ReadFromAddr", numOps)
	bus.AssertExpectations(t)
}

func TestReadNanovolts(t *testing.T) {
	bus := newMockBus()
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return([]byte{0x04, 0x00}, nil).Once()

	d, err := Attach(bus)
	assert.NoError(t, err)

	nv, err := d.ReadNanovolts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(1024)*805664, nv)

	bus.AssertExpectations(t)
}

func TestReadAttribute(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockI2CBus)
		attr      adc.Attribute
		expected  adc.Value
		err       error
	}{
		{
			name: "raw",
			setupMock: func(bus *MockI2CBus) {
				bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
					Return([]byte{0x00, 0x64}, nil).Once()
			},
			attr:     adc.Raw,
			expected: adc.Value{Int: 100},
		},
		{
			name:     "scale",
			attr:     adc.Scale,
			expected: adc.Value{Int: 0, Nano: 805664},
		},
		{
			name:     "sampling frequency",
			attr:     adc.SampleRate,
			expected: adc.Value{Int: 5500},
		},
		{
			name: "unsupported attribute",
			attr: adc.Attribute(42),
			err:  adc.ErrUnsupportedAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := newMockBus()
			if tt.setupMock != nil {
				tt.setupMock(bus)
			}

			d, err := Attach(bus)
			assert.NoError(t, err)

			val, err := d.ReadAttribute(context.Background(), 0, tt.attr)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, val)
			}

			bus.AssertExpectations(t)
		})
	}
}

func TestReadAttribute_RawErrorNarrowed(t *testing.T) {
	bus := newMockBus()
	busErr := errors.New("i2c: device NAK")
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(nil, busErr).Once()

	d, err := Attach(bus)
	assert.NoError(t, err)

	_, err = d.ReadAttribute(context.Background(), 0, adc.Raw)
	assert.ErrorIs(t, err, adc.ErrReadFailed)
	assert.NotErrorIs(t, err, busErr, "bus error must not leak through the attribute boundary")

	// a failed read does not tear the device down
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return([]byte{0x00, 0x05}, nil).Once()
	val, err := d.ReadAttribute(context.Background(), 0, adc.Raw)
	assert.NoError(t, err)
	assert.Equal(t, adc.Value{Int: 5}, val)

	bus.AssertExpectations(t)
}

func TestReadAttribute_ScaleIndependentOfReads(t *testing.T) {
	bus := newMockBus()
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return([]byte{0x0F, 0xFF}, nil).Once()

	d, err := Attach(bus)
	assert.NoError(t, err)

	_, err = d.ReadAttribute(context.Background(), 0, adc.Raw)
	assert.NoError(t, err)

	val, err := d.ReadAttribute(context.Background(), 0, adc.Scale)
	assert.NoError(t, err)
	assert.Equal(t, adc.Value{Int: 0, Nano: 805664}, val)

	val, err = d.ReadAttribute(context.Background(), 0, adc.SampleRate)
	assert.NoError(t, err)
	assert.Equal(t, adc.Value{Int: 5500}, val)

	bus.AssertExpectations(t)
}

func TestWriteAttribute_ReadOnly(t *testing.T) {
	attrs := []adc.Attribute{adc.Raw, adc.Scale, adc.SampleRate, adc.Attribute(42)}

	for _, attr := range attrs {
		t.Run(attr.String(), func(t *testing.T) {
			bus := newMockBus()
			d, err := Attach(bus)
			assert.NoError(t, err)

			err = d.WriteAttribute(context.Background(), 0, attr, adc.Value{Int: 1})
			assert.ErrorIs(t, err, adc.ErrReadOnly)

			bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, mock.Anything, mock.Anything)
			bus.AssertNotCalled(t, "ReadFromAddr", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDetach(t *testing.T) {
	bus := newMockBus()
	bus.On("Release", mock.Anything).Return(nil).Once()

	d, err := Attach(bus)
	assert.NoError(t, err)
	assert.NoError(t, d.Detach(context.Background()))

	bus.AssertExpectations(t)
}

func TestChannels(t *testing.T) {
	channels := Channels()
	assert.Len(t, channels, 1)
	assert.Equal(t, adc.Voltage, channels[0].Type)
	assert.Equal(t, 0, channels[0].Index)
	assert.ElementsMatch(t, []adc.Attribute{adc.Raw, adc.Scale, adc.SampleRate}, channels[0].Attributes)
}
