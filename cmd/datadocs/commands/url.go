package commands

import (
	"fmt"

	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// URLCmd implements the 'url' command.
type URLCmd struct {
	Site     string `short:"s" help:"Site to resolve against (required when several sites are configured)"`
	Resource string `arg:"" optional:"" help:"Resource key; omit for the index page"`
}

func (u *URLCmd) Run(_ *Global, root *CLI) error {
	var id identifier.ResourceIdentifier
	if u.Resource != "" {
		parsed, err := identifier.Parse(u.Resource)
		if err != nil {
			return err
		}
		id = parsed
	}
	p, err := openProject(root)
	if err != nil {
		return err
	}
	defer p.Close()

	site, err := p.cfg.Site(u.Site)
	if err != nil {
		return err
	}
	builders, err := p.builders(site.Name)
	if err != nil {
		return err
	}
	url, err := builders[0].ResourceURL(id)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}
