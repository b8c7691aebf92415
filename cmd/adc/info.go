package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/adc"
	"github.com/mklimuk/adc/cmd/adc/console"
	"github.com/mklimuk/adc/mcp3221"
)

type channelInfo struct {
	Channels             []adc.Channel `yaml:"channels"`
	Scale                string        `yaml:"scale"`
	SampleRate           string        `yaml:"sampling_frequency"`
	AvailableScales      string        `yaml:"scales_available"`
	AvailableSampleRates string        `yaml:"sampling_frequencies_available"`
}

var infoCmd = cli.Command{
	Name:  "info",
	Usage: "print the channel descriptor and fixed attribute values",
	Action: func(c *cli.Context) error {
		enc := yaml.NewEncoder(os.Stdout)
		err := enc.Encode(channelInfo{
			Channels:             mcp3221.Channels(),
			Scale:                mcp3221.Scale().String(),
			SampleRate:           mcp3221.SampleRate().String(),
			AvailableScales:      mcp3221.AvailableScales(),
			AvailableSampleRates: mcp3221.AvailableSampleRates(),
		})
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
