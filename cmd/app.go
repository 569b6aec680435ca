package cmd

import (
	"github.com/urfave/cli"
)

// NewApp assembles the command line application
func NewApp() *cli.App {
	// The default version flag claims -v
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lighttree"
	app.Usage = "build, inspect and sample light trees"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "notice",
			Usage: "lowest level logged: debug, info, notice, warning or error",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "inspect",
			Usage: "print light tree statistics and nodes",
			Description: `
Load a scene description (YAML or TOML), build its light tree and print the
tree statistics followed by the first nodes in storage order. Pass "grid"
instead of a file to use the built-in procedural scene.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "nodes, n",
					Value: 16,
					Usage: "number of nodes to list, 0 for none",
				},
			},
			Action: Inspect,
		},
		{
			Name:      "validate",
			Usage:     "check the light tree layout of scenes",
			ArgsUsage: "scene_file1 scene_file2 ...",
			Action:    Validate,
		},
		{
			Name:  "sample",
			Usage: "compare light selection strategies at a shading point",
			Description: `
Draw light samples at a shading point with the light tree and with an energy
weighted baseline, then report the unshadowed irradiance estimate of both and
how often each light was picked compared to its selection probability.`,
			ArgsUsage: "scene_file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "point, p",
					Value: "0,0,0",
					Usage: "shading point as x,y,z",
				},
				cli.StringFlag{
					Name:  "normal",
					Value: "0,0,1",
					Usage: "shading normal as x,y,z",
				},
				cli.IntFlag{
					Name:  "samples, s",
					Value: 100000,
					Usage: "light samples per strategy",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: "number of workers, 0 for one per CPU",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "seed of the sample sequence",
				},
				cli.IntFlag{
					Name:  "bounce",
					Value: 0,
					Usage: "path depth of the shading point",
				},
				cli.IntFlag{
					Name:  "top",
					Value: 10,
					Usage: "number of most likely lights to list",
				},
			},
			Action: Sample,
		},
	}
	return app
}
