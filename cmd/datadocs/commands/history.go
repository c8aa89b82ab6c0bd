package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/datadocs/internal/eventstore"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of builds to show" default:"20"`
	Build string `help:"Show a single build in full"`
	JSON  bool   `name:"json" help:"Print JSON instead of a table"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	p, err := openProject(root)
	if err != nil {
		return err
	}
	defer p.Close()
	if p.journal == nil {
		return errors.ConfigError("build journal is disabled (set journal.database)").Build()
	}

	proj := eventstore.NewBuildHistoryProjection(p.journal, h.Limit)
	if err := proj.Rebuild(context.Background()); err != nil {
		return err
	}

	if h.Build != "" {
		summary, ok := proj.GetBuild(h.Build)
		if !ok {
			return errors.NotFoundError("build not found in journal").WithContext("build_id", h.Build).Build()
		}
		return writeJSON(os.Stdout, summary)
	}
	history := proj.GetHistory()
	if h.JSON {
		return writeJSON(os.Stdout, history)
	}
	return writeHistoryTable(os.Stdout, history)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistoryTable(w io.Writer, history []*eventstore.BuildSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSITE\tSTATUS\tSTARTED\tDURATION\tWRITTEN\tSELECTIVE")
	for _, s := range history {
		status := s.Status
		if s.ErrorMessage != "" {
			status += ": " + s.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%t\n",
			s.BuildID, s.Site, status, s.StartedAt.Local().Format(time.RFC3339),
			s.Duration.Round(time.Millisecond), s.PagesWritten(), s.Selective)
	}
	return tw.Flush()
}
