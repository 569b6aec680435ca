package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-lighttree/pkg/estimator"
	"github.com/df07/go-lighttree/pkg/lighttree"
	"github.com/df07/go-lighttree/pkg/scene"
)

// Sample compares the light tree against energy weighted selection at one
// shading point.
func Sample(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return err
	}

	point, err := parseVec3(ctx.String("point"))
	if err != nil {
		return fmt.Errorf("invalid point: %v", err)
	}
	normal, err := parseVec3(ctx.String("normal"))
	if err != nil {
		return fmt.Errorf("invalid normal: %v", err)
	}
	if normal.IsZero() {
		return errors.New("normal must not be zero")
	}
	receiver := estimator.Receiver{P: point, N: normal.Normalize(), Bounce: ctx.Int("bounce")}

	opts := estimator.DefaultOptions()
	opts.Samples = ctx.Int("samples")
	opts.Workers = ctx.Int("workers")
	opts.Seed = ctx.Int64("seed")

	sampler := sc.NewSampler()
	weighted := estimator.NewWeightedStrategy(sc.Tree, sc.Lights)
	results, err := estimator.Compare(context.Background(), []estimator.Strategy{
		estimator.NewTreeStrategy(sampler),
		weighted,
	}, receiver, opts)
	if err != nil {
		logger.Error(err)
		return err
	}
	if n := sampler.Violations(); n > 0 {
		logger.Warningf("light tree reported %d invariant violations", n)
	}

	var buf bytes.Buffer
	writeStrategies(&buf, results)
	writeSelections(&buf, sc, sampler, weighted, receiver, results, ctx.Int("top"))
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func writeStrategies(buf *bytes.Buffer, results []*estimator.Result) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Strategy", "Samples", "Success", "Mean", "Std error", "Variance", "Time"})
	for _, r := range results {
		table.Append([]string{
			r.Strategy,
			fmt.Sprintf("%d", r.Samples),
			fmt.Sprintf("%02.1f %%", 100*r.SuccessRate()),
			fmt.Sprintf("%.6g", r.Mean()),
			fmt.Sprintf("%.3g", r.StdError()),
			fmt.Sprintf("%.4g", r.Variance()),
			r.Duration.String(),
		})
	}
	table.Render()
}

// lightEntry is one row of the selection table
type lightEntry struct {
	key      estimator.LightKey
	treePDF  float32
	fixedPDF float32
}

func writeSelections(buf *bytes.Buffer, sc *scene.Scene, sampler *lighttree.Sampler, weighted *estimator.WeightedStrategy,
	receiver estimator.Receiver, results []*estimator.Result, top int) {
	if top <= 0 {
		return
	}

	q := lighttree.Query{P: receiver.P, N: receiver.N, Bounce: receiver.Bounce}
	numEmitters := sc.Tree.NumEmitters()
	entries := make([]lightEntry, 0, sc.Tree.NumDistribution())
	for i := 0; i < sc.Tree.NumDistribution(); i++ {
		key := estimator.LightKey{Lamp: -1, Prim: -1}
		if i >= numEmitters {
			key.Lamp = sc.Tree.DistantLight(i - numEmitters).Lamp()
		} else if d := sc.Tree.Distribution(i); d.IsMeshLight() {
			key.Prim = int(d.Prim)
		} else {
			key.Lamp = d.Lamp()
		}
		entries = append(entries, lightEntry{
			key:      key,
			treePDF:  sampler.SelectionPDF(q, i),
			fixedPDF: weighted.Probability(i),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].treePDF > entries[j].treePDF
	})

	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	header := []string{"Light", "Tree pdf"}
	for _, r := range results {
		header = append(header, r.Strategy+" freq")
	}
	header = append(header, "Weighted pdf")
	table.SetHeader(header)

	for _, e := range entries[:min(top, len(entries))] {
		row := []string{e.key.String(), fmt.Sprintf("%.5f", e.treePDF)}
		for _, r := range results {
			row = append(row, fmt.Sprintf("%.5f", r.Frequency(e.key)))
		}
		row = append(row, fmt.Sprintf("%.5f", e.fixedPDF))
		table.Append(row)
	}
	table.Render()
}
