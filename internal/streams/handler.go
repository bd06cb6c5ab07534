package streams

import (
	"fmt"
	"io"
	"strings"

	"github.com/jimdaga/team-pulse/internal/dispatch"
)

// PrintBriefing returns a handler that writes each briefing to w with a
// one-line header.
func PrintBriefing(w io.Writer) func(dispatch.Result) error {
	return func(result dispatch.Result) error {
		window := result.WindowStart
		if result.WindowEnd != result.WindowStart {
			window += ".." + result.WindowEnd
		}
		header := fmt.Sprintf("== %s #%d %s %s [%s]", result.TeamName, result.TeamID, result.Kind, window, result.Outcome)

		if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n", header, strings.TrimSpace(result.Text), strings.Repeat("-", len(header))); err != nil {
			return fmt.Errorf("failed to write briefing: %w", err)
		}
		return nil
	}
}
