package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/datadocs/internal/sitebuilder"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Site        string   `short:"s" help:"Build only this site (default: every site)"`
	Resource    []string `short:"r" help:"Render only these resources, e.g. suite:titanic.warning or validation:titanic.warning/<run_id>/<batch_id>"`
	Concurrency int      `help:"Number of sections built in parallel" default:"1"`
	JSON        bool     `name:"json" help:"Print the index links as JSON"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ids, err := parseResources(b.Resource)
	if err != nil {
		return err
	}
	p, err := openProject(root)
	if err != nil {
		return err
	}
	defer p.Close()

	builders, err := p.builders(b.Site, sitebuilder.WithConcurrency(b.Concurrency))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results := make([]sitebuilder.BuildResult, 0, len(builders))
	for _, sb := range builders {
		res, err := sb.Build(ctx, ids)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	return printBuildResults(os.Stdout, results, b.JSON)
}

func printBuildResults(w io.Writer, results []sitebuilder.BuildResult, asJSON bool) error {
	if asJSON {
		links := make([]sitebuilder.IndexLinks, 0, len(results))
		for _, r := range results {
			links = append(links, r.Links)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	}
	for _, r := range results {
		counts := r.Links.Counts()
		_, err := fmt.Fprintf(w, "%s: %s (expectations=%d validations=%d profiling=%d)\n",
			r.Links.SiteName, r.IndexPath,
			counts[string(sitebuilder.KindExpectations)],
			counts[string(sitebuilder.KindValidations)],
			counts[string(sitebuilder.KindProfiling)])
		if err != nil {
			return err
		}
	}
	return nil
}
