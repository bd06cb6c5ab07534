package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/olekukonko/tablewriter"
)

// writeSummary renders one row per processed team followed by the run totals.
func writeSummary(w io.Writer, summary *dispatch.Summary) error {
	if _, err := fmt.Fprintf(w, "run %s (%s): %d teams evaluated, %d due\n",
		summary.RunID, summary.Kind, summary.Evaluated, summary.Processed); err != nil {
		return err
	}
	if len(summary.Results) == 0 {
		_, err := fmt.Fprintln(w, "no team was due")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Team", "Name", "Window", "Status", "Error"})

	var data [][]string
	for _, r := range summary.Results {
		data = append(data, []string{
			strconv.FormatUint(uint64(r.TeamID), 10),
			r.TeamName,
			r.Window.String(),
			string(r.Status),
			r.Error,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writePreview prints the raw briefing text of a preview run.
func writePreview(w io.Writer, summary *dispatch.Summary) error {
	if summary.Preview == nil {
		if len(summary.Results) > 0 && summary.Results[0].Error != "" {
			return fmt.Errorf("preview failed: %s", summary.Results[0].Error)
		}
		return fmt.Errorf("no matching team")
	}
	p := summary.Preview
	_, err := fmt.Fprintf(w, "%s (%s, %s) [%s]\n\n%s\n", p.TeamName, p.Kind, p.Window.Label(), p.Outcome, strings.TrimSpace(p.Text))
	return err
}
