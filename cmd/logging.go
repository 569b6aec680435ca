package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-lighttree/pkg/log"
)

var logger = log.New("cli")

// setupLogging applies --log-level, then lets -v and -vv raise verbosity
// further.
func setupLogging(ctx *cli.Context) error {
	level := log.Notice
	if name := ctx.GlobalString("log-level"); name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		level = parsed
	}

	switch {
	case ctx.GlobalBool("vv"):
		level = min(level, log.Debug)
	case ctx.GlobalBool("v"):
		level = min(level, log.Info)
	}
	log.SetLevel(level)
	return nil
}
