package terminal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/commitpulse/pkg/pulse"
)

// DefaultSummaryRows is how many contributors and languages Summary lists.
const DefaultSummaryRows = 5

// Summary prints a short plain-text digest of report: headline numbers, the
// top contributors and the language breakdown.
func Summary(w io.Writer, report pulse.PulseReport, rows int) error {
	if rows <= 0 {
		rows = DefaultSummaryRows
	}

	_, err := fmt.Fprintf(w, "%s: %s commits, %d contributors, ~%.1f hours, peak %s (%s to %s)\n",
		report.Name, humanize.Comma(int64(report.TotalCommits)), len(report.Contributors),
		report.EstimatedHours, report.PeakHour, report.FirstCommit, report.LastCommit)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if len(report.Contributors) > 0 {
		contributors := newTable()
		contributors.AppendHeader(table.Row{"Contributor", "Commits", "Added", "Deleted"})

		for _, c := range report.Contributors[:min(rows, len(report.Contributors))] {
			contributors.AppendRow(table.Row{
				c.Name, humanize.Comma(int64(c.Commits)),
				"+" + humanize.Comma(int64(c.LinesAdded)), "-" + humanize.Comma(int64(c.LinesDeleted)),
			})
		}

		if hidden := len(report.Contributors) - rows; hidden > 0 {
			contributors.AppendFooter(table.Row{fmt.Sprintf("+%d more", hidden)})
		}

		err = writeTable(w, contributors)
		if err != nil {
			return err
		}
	}

	if len(report.Languages) > 0 {
		langs := newTable()
		langs.AppendHeader(table.Row{"Language", "Share", "Size", "Files"})

		for _, l := range report.Languages[:min(rows, len(report.Languages))] {
			langs.AppendRow(table.Row{
				l.Name, strconv.FormatFloat(pulse.RoundPercent(l.Percentage), 'f', 1, 64) + "%",
				humanize.IBytes(uint64(l.Bytes)), l.Files, //nolint:gosec // sizes are non-negative.
			})
		}

		err = writeTable(w, langs)
		if err != nil {
			return err
		}
	}

	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	return tbl
}

func writeTable(w io.Writer, tbl table.Writer) error {
	_, err := fmt.Fprintf(w, "\n%s\n", tbl.Render())
	if err != nil {
		return fmt.Errorf("write summary table: %w", err)
	}

	return nil
}
