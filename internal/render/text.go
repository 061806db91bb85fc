package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/raysh454/fraudeye/internal/model"
)

func writeTextHistory(w io.Writer, scans []model.Scan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, c := range statCards(model.ComputeStats(scans)) {
		fmt.Fprintf(tw, "%s\t%d\t(%s)\n", c.label, c.value, c.pill)
	}
	fmt.Fprintln(tw)

	if len(scans) == 0 {
		fmt.Fprintln(tw, "No scans yet")
		fmt.Fprintln(tw, "Run your first verification to see results here.")
		return tw.Flush()
	}

	fmt.Fprintf(tw, "Scan History (latest %d verifications)\n", min(len(scans), 50))
	fmt.Fprintln(tw, strings.Join(historyHeader, "\t"))
	for _, row := range historyRows(scans) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
