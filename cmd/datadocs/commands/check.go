package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/datadocs/internal/linkverify"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Site     string `short:"s" help:"Check only this site (default: every site)"`
	MaxPages int    `name:"max-pages" help:"Stop crawling after this many pages (0: no limit)"`
	NoLinks  bool   `name:"no-links" help:"Only validate the configuration"`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	p, err := openProject(root)
	if err != nil {
		return err
	}
	defer p.Close()

	// Constructing the builders resolves every store and renderer reference.
	builders, err := p.builders(c.Site)
	if err != nil {
		return err
	}
	fmt.Printf("Configuration %s is valid (%d site(s))\n", root.Config, len(builders))
	if c.NoLinks {
		return nil
	}

	verifier := linkverify.NewVerifier(linkverify.WithLogger(p.logger), linkverify.WithMaxPages(c.MaxPages))
	var firstErr error
	for _, b := range builders {
		report, err := verifier.Verify(context.Background(), b.Target().BaseDirectory())
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d page(s), %d link(s), %d broken\n", b.Name(), report.Pages, report.Links, len(report.Broken))
		for _, broken := range report.Broken {
			fmt.Fprintf(os.Stdout, "  %s: %s (%s)\n", broken.Page, broken.URL, broken.Reason)
		}
		if err := report.Err(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
