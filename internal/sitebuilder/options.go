package sitebuilder

import (
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/datadocs/internal/eventstore"
	"git.home.luguber.info/inful/datadocs/internal/metrics"
	"git.home.luguber.info/inful/datadocs/internal/render"
	"git.home.luguber.info/inful/datadocs/internal/retry"
)

// Option configures a SiteBuilder.
type Option func(*SiteBuilder)

// WithConcurrency builds up to n sections in parallel. Sections write
// disjoint paths; the default is sequential.
func WithConcurrency(n int) Option {
	return func(b *SiteBuilder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLogger sets the logger used for build progress.
func WithLogger(l *slog.Logger) Option {
	return func(b *SiteBuilder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *SiteBuilder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithJournal appends build events to store. Journal failures are logged and
// never fail a build.
func WithJournal(store eventstore.Store) Option {
	return func(b *SiteBuilder) { b.journal = store }
}

// WithJournalRetry sets the backoff used when a journal append fails, for
// instance while another process holds the SQLite write lock.
func WithJournalRetry(p retry.Policy) Option {
	return func(b *SiteBuilder) {
		if p.Validate() == nil {
			b.journalRetry = p
		}
	}
}

// WithRegistry resolves renderer and view class names in reg instead of the
// built-in registry.
func WithRegistry(reg *render.Registry) Option {
	return func(b *SiteBuilder) {
		if reg != nil {
			b.registry = reg
		}
	}
}

// WithBuildIDs replaces the build id generator.
func WithBuildIDs(next func() string) Option {
	return func(b *SiteBuilder) {
		if next != nil {
			b.newBuildID = next
		}
	}
}

func defaultBuildID() string { return uuid.NewString() }
