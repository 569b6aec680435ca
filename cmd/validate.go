package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/df07/go-lighttree/pkg/lighttree"
)

// Validate builds the light tree of every scene argument and checks its layout.
func Validate(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene argument")
	}

	var failed int
	for idx := 0; idx < ctx.NArg(); idx++ {
		name := ctx.Args().Get(idx)
		sc, err := loadScene(name)
		if err == nil {
			err = lighttree.Validate(sc.Tree)
		}
		if err != nil {
			logger.Errorf("%s: %v", name, err)
			fmt.Fprintf(ctx.App.Writer, "%s: FAIL %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "%s: ok (%s)\n", name, sc.Stats)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenes failed validation", failed, ctx.NArg())
	}
	return nil
}
