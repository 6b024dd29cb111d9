package tui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mdbench/internal/storage"
)

// RenderHistory writes a table of the stored runs followed by a plot of
// ns/day over time. The plot needs at least two runs.
func RenderHistory(w io.Writer, records []storage.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no recorded runs")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTIME\tPLATFORM\tSTEPS\tNS/DAY\tELAPSED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4g\t%.3fs\n",
			r.Name, r.Timestamp.Format("2006-01-02 15:04:05"), r.Platform, r.Steps, r.NsPerDay, r.ElapsedSeconds)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(records) < 2 {
		return nil
	}
	data := make([]float64, len(records))
	for i, r := range records {
		data[i] = r.NsPerDay
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("ns/day per run"))
	_, err := fmt.Fprintf(w, "\n%s\n", graph)
	return err
}
