package main

import (
	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/adc"
	"github.com/mklimuk/adc/adapter"
	"github.com/mklimuk/adc/cmd/adc/console"
	"github.com/mklimuk/adc/i2c"
)

var transportFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "mcp2221",
		Usage:   "bus transport: mcp2221, generic (periph.io) or nanopi (gobot)",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   "/dev/i2c-1",
		Usage:   "bus device for the generic adapter",
	},
	&cli.IntFlag{
		Name:    "bus",
		Aliases: []string{"b"},
		Value:   0,
		Usage:   "bus number for the nanopi adapter",
	},
	&cli.IntFlag{
		Name:  "addr",
		Value: 0x4D,
		Usage: "7-bit device address",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

// openBus builds the transport selected by the --adapter flag. The second
// return value tears the transport down and is safe to defer.
func openBus(c *cli.Context) (adc.I2CBus, func(), error) {
	switch c.String("adapter") {
	case "generic":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, nil, err
		}
		return bus, func() {
			err := bus.Close()
			if err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, err
		}
		bus := adapter.NewGobotBus(npi, c.Int("bus"))
		return bus, func() {
			_ = npi.I2cBusAdaptor.Finalize()
		}, nil
	default:
		ad := adapter.NewMCP2221()
		if err := ad.Init(); err != nil {
			return nil, nil, err
		}
		return ad, func() {}, nil
	}
}
