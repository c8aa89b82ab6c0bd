package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	ferrors "git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/logfields"
	"git.home.luguber.info/inful/datadocs/internal/metrics"
	"git.home.luguber.info/inful/datadocs/internal/sitebuilder"
	"git.home.luguber.info/inful/datadocs/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Site           string        `short:"s" help:"Watch only this site (default: every site)"`
	Debounce       time.Duration `help:"Quiet window before a rebuild (overrides watch.debounce)"`
	Schedule       string        `help:"Cron expression for full rebuilds (overrides watch.schedule)"`
	Concurrency    int           `help:"Number of sections built in parallel" default:"1"`
	NoInitialBuild bool          `name:"no-initial-build" help:"Skip the full build at startup"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	p, err := openProject(root)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []sitebuilder.Option{sitebuilder.WithConcurrency(w.Concurrency)}
	if p.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, sitebuilder.WithRecorder(metrics.NewPrometheusRecorder(reg)))
		stop := serveMetrics(p, reg)
		defer stop()
	}

	builders, err := p.builders(w.Site, opts...)
	if err != nil {
		return err
	}
	targets := make([]watch.Builder, 0, len(builders))
	for _, b := range builders {
		targets = append(targets, b)
	}

	debounce := w.Debounce
	if debounce == 0 {
		if debounce, err = time.ParseDuration(p.cfg.Watch.Debounce); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid watch.debounce").Build()
		}
	}
	schedule := w.Schedule
	if schedule == "" {
		schedule = p.cfg.Watch.Schedule
	}

	sources := watch.SourcesFrom(p.stores.Artifacts)
	if len(sources) < len(p.stores.Artifacts) {
		p.logger.Warn("Only filesystem stores are watched; use --schedule to pick up other backends",
			logfields.Count(len(p.stores.Artifacts)-len(sources)))
	}
	watcher, err := watch.New(sources, targets, watch.Options{
		Debounce:     debounce,
		Schedule:     schedule,
		InitialBuild: !w.NoInitialBuild,
		Logger:       p.logger,
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// serveMetrics exposes reg on the configured listen address and returns a
// shutdown function.
func serveMetrics(p *project, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: p.cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		p.logger.Info("Serving metrics", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
