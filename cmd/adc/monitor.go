package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/adc/cmd/adc/console"
	"github.com/mklimuk/adc/mcp3221"
)

var monitorCmd = cli.Command{
	Name:  "monitor",
	Usage: "interactive sampling session",
	Flags: transportFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))

		bus, teardown, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer teardown()

		dev, err := mcp3221.Attach(bus, mcp3221.WithAddress(byte(c.Int("addr"))))
		if err != nil {
			return console.Exit(1, "attach error: %s", console.Red(err))
		}
		defer func() {
			if err := dev.Detach(context.Background()); err != nil {
				console.Errorf("detach error: %s", console.Red(err))
			}
		}()

		console.Infof("sampling at most %s sps, scale %s V/LSB",
			mcp3221.AvailableSampleRates(), mcp3221.AvailableScales())
		for {
			answer, err := console.Prompt("sample?", "r", "q")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer == "q" {
				return nil
			}
			if err := printSample(ctx, dev); err != nil {
				console.Errorf("error reading sample: %s", console.Red(err))
			}
		}
	},
}
