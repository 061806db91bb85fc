package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/raysh454/fraudeye/internal/model"
)

func writeMarkdownHistory(w io.Writer, scans []model.Scan) error {
	md := markdown.NewMarkdown(w)
	stats := model.ComputeStats(scans)

	md.H1("Scan History")
	md.PlainText("")

	rows := make([][]string, 0, 4)
	for _, c := range statCards(stats) {
		rows = append(rows, []string{c.label, strconv.Itoa(c.value), c.pill})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Stat", "Count", "Note"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(scans) == 0 {
		md.PlainText("**No scans yet**")
		md.PlainText("")
		md.PlainText("Run your first verification to see results here.")
		return md.Build()
	}

	writeLabelChart(md, stats)

	md.H2("Latest " + strconv.Itoa(min(len(scans), 50)) + " verifications")
	md.PlainText("")
	cells := historyRows(scans)
	for _, row := range cells {
		for i := range row {
			row[i] = escapeCell(row[i])
		}
	}
	md.Table(markdown.TableSet{
		Header: historyHeader,
		Rows:   cells,
	})
	return md.Build()
}

func writeLabelChart(md *markdown.Markdown, st model.Stats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdicts"),
		piechart.WithShowData(true),
	)
	if st.Fake > 0 {
		chart.LabelAndIntValue("Fake", uint64(st.Fake))
	}
	if st.Real > 0 {
		chart.LabelAndIntValue("Real", uint64(st.Real))
	}
	if st.Uncertain > 0 {
		chart.LabelAndIntValue("Uncertain", uint64(st.Uncertain))
	}
	if other := st.Total - st.Fake - st.Real - st.Uncertain; other > 0 {
		chart.LabelAndIntValue("Other", uint64(other))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
