package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/adc/cmd/adc/console"
	"github.com/mklimuk/adc/mcp3221"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read the voltage channel",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Value:   1,
			Usage:   "number of samples to take",
		},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   200 * time.Millisecond,
			Usage:   "pause between samples",
		},
	}, transportFlags...),
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

		count := c.Int("count")
		for i := 0; i < count; i++ {
			if i > 0 {
				time.Sleep(c.Duration("interval"))
			}
			if err := printSample(ctx, dev); err != nil {
				return console.Exit(1, "error reading sample: %s", console.Red(err))
			}
		}
		return nil
	},
}

func printSample(ctx context.Context, dev *mcp3221.MCP3221) error {
	sample, err := dev.ReadChannel(ctx, 0)
	if err != nil {
		return err
	}
	nv, err := dev.ReadNanovolts(ctx)
	if err != nil {
		return err
	}
	console.Printf("%s %s counts  %s V\n", console.PictoBolt,
		console.White(sample), console.White(fmt.Sprintf("%.9f", float64(nv)/1e9)))
	return nil
}
