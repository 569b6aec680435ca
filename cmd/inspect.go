package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-lighttree/pkg/lighttree"
	"github.com/df07/go-lighttree/pkg/scene"
)

// Inspect prints the statistics and the leading nodes of a scene's light tree.
func Inspect(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := loadScene(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return err
	}

	var buf bytes.Buffer
	writeStats(&buf, sc)
	if n := ctx.Int("nodes"); n > 0 {
		writeNodes(&buf, sc.Tree, n)
	}
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func writeStats(buf *bytes.Buffer, sc *scene.Scene) {
	stats := sc.Stats
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene", "Nodes", "Leaves", "Depth", "Max leaf", "Emitters", "Distant", "Energy"})
	table.Append([]string{
		sc.Name,
		fmt.Sprintf("%d", stats.Nodes),
		fmt.Sprintf("%d", stats.Leaves),
		fmt.Sprintf("%d", stats.MaxDepth),
		fmt.Sprintf("%d", stats.MaxLeafSize),
		fmt.Sprintf("%d", stats.Emitters),
		fmt.Sprintf("%d", stats.DistantLights),
		fmt.Sprintf("%.4g", stats.TotalEnergy),
	})
	table.Render()
}

func writeNodes(buf *bytes.Buffer, data lighttree.SceneData, limit int) {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Node", "Kind", "Children / emitters", "Energy", "Bounds min", "Bounds max", "Axis", "Theta o", "Theta e"})

	count := min(limit, data.NumNodes())
	for i := 0; i < count; i++ {
		node := data.Node(i)
		kind := "interior"
		contents := fmt.Sprintf("%d, %d", i+1, node.RightChild())
		if node.IsLeaf() {
			kind = "leaf"
			contents = fmt.Sprintf("[%d, %d)", node.FirstEmitter(), node.FirstEmitter()+int(node.NumPrims))
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			kind,
			contents,
			fmt.Sprintf("%.4g", node.Energy),
			fmt.Sprintf("%.3g %.3g %.3g", node.Bounds.Min.X, node.Bounds.Min.Y, node.Bounds.Min.Z),
			fmt.Sprintf("%.3g %.3g %.3g", node.Bounds.Max.X, node.Bounds.Max.Y, node.Bounds.Max.Z),
			fmt.Sprintf("%.2f %.2f %.2f", node.Cone.Axis.X, node.Cone.Axis.Y, node.Cone.Axis.Z),
			fmt.Sprintf("%.3f", node.Cone.ThetaO),
			fmt.Sprintf("%.3f", node.Cone.ThetaE),
		})
	}
	if count < data.NumNodes() {
		table.SetFooter([]string{"", "", "", "", "", "", "", "SHOWN", fmt.Sprintf("%d/%d", count, data.NumNodes())})
	}
	table.Render()
}
