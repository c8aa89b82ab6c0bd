// Package commands implements the datadocs subcommands.
package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/datadocs/internal/config"
	"git.home.luguber.info/inful/datadocs/internal/eventstore"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
	"git.home.luguber.info/inful/datadocs/internal/sitebuilder"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"datadocs.yml" env:"DATADOCS_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Render sites from the configured stores"`
	URL     URLCmd     `cmd:"" name:"url" help:"Print the file:// URL of a site index or resource page"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Check   CheckCmd   `cmd:"" help:"Validate the configuration and verify site links"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild sites when artifacts change"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the build journal"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// configureLogging replaces the default logger with the one cfg asks for.
// --verbose always wins over the configured level.
func configureLogging(cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := cfg.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// project is a loaded configuration with its stores and journal opened.
type project struct {
	cfg     *config.Config
	stores  *sitebuilder.Stores
	journal eventstore.Store
	logger  *slog.Logger
}

func openProject(root *CLI) (*project, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	logger := configureLogging(cfg.Logging, root.Verbose)
	stores, err := sitebuilder.OpenStores(cfg)
	if err != nil {
		return nil, err
	}
	p := &project{cfg: cfg, stores: stores, logger: logger}
	if cfg.Journal.Database != "" {
		journal, err := eventstore.NewSQLiteStore(cfg.Journal.Database)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
		p.journal = journal
	}
	return p, nil
}

func (p *project) Close() {
	if err := p.stores.Close(); err != nil {
		p.logger.Warn("Failed to close stores", logfields.Error(err))
	}
	if p.journal != nil {
		if err := p.journal.Close(); err != nil {
			p.logger.Warn("Failed to close build journal", logfields.Error(err))
		}
	}
}

// siteNames returns the single named site, or every site when name is empty.
func (p *project) siteNames(name string) ([]string, error) {
	if name == "" {
		return p.cfg.SiteNames(), nil
	}
	if _, err := p.cfg.Site(name); err != nil {
		return nil, err
	}
	return []string{name}, nil
}

// builders constructs a SiteBuilder for every selected site.
func (p *project) builders(name string, opts ...sitebuilder.Option) ([]*sitebuilder.SiteBuilder, error) {
	names, err := p.siteNames(name)
	if err != nil {
		return nil, err
	}
	opts = append([]sitebuilder.Option{sitebuilder.WithLogger(p.logger)}, opts...)
	if p.journal != nil {
		opts = append(opts, sitebuilder.WithJournal(p.journal))
	}
	out := make([]*sitebuilder.SiteBuilder, 0, len(names))
	for _, n := range names {
		site, err := p.cfg.Site(n)
		if err != nil {
			return nil, err
		}
		b, err := sitebuilder.New(site, p.stores, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// parseResources turns --resource keys into identifiers.
func parseResources(keys []string) ([]identifier.ResourceIdentifier, error) {
	var ids []identifier.ResourceIdentifier
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		id, err := identifier.Parse(key)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
