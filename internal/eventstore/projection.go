// Package eventstore is the build journal: an append-only SQLite log of site
// build events and the history projection derived from it.
package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Build statuses reported by BuildSummary.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SectionSummary counts the pages one section produced in a build.
type SectionSummary struct {
	Pages   int `json:"pages"`
	Written int `json:"written"`
}

// BuildSummary is a read model of one build.
type BuildSummary struct {
	BuildID      string                    `json:"build_id"`
	Site         string                    `json:"site"`
	Status       string                    `json:"status"`
	Selective    bool                      `json:"selective"`
	StartedAt    time.Time                 `json:"started_at"`
	CompletedAt  *time.Time                `json:"completed_at,omitempty"`
	Duration     time.Duration             `json:"duration,omitempty"`
	Sections     map[string]SectionSummary `json:"sections,omitempty"`
	IndexPath    string                    `json:"index_path,omitempty"`
	IndexLinks   map[string]int            `json:"index_links,omitempty"`
	ErrorSection string                    `json:"error_section,omitempty"`
	ErrorMessage string                    `json:"error_message,omitempty"`
}

// PagesWritten sums written pages across sections.
func (s *BuildSummary) PagesWritten() int {
	n := 0
	for _, sec := range s.Sections {
		n += sec.Written
	}
	return n
}

// BuildHistoryProjection maintains an in-memory view of build history,
// reconstructed from journal events.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	history []*BuildSummary // finished builds, newest first
	maxSize int
}

// NewBuildHistoryProjection creates a projection backed by store.
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every event in the store.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	p.history = nil
	for _, event := range events {
		p.applyEventLocked(event)
	}
	// Completion order breaks start-time ties.
	sort.SliceStable(p.history, func(i, j int) bool {
		return p.history[i].StartedAt.After(p.history[j].StartedAt)
	})
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	p.pruneBuildsLocked()
	return nil
}

// Apply processes a single event.
func (p *BuildHistoryProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
}

func (p *BuildHistoryProjection) applyEventLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}
	summary, exists := p.builds[buildID]
	if !exists {
		summary = &BuildSummary{
			BuildID:   buildID,
			Status:    StatusRunning,
			StartedAt: event.Timestamp(),
			Sections:  map[string]SectionSummary{},
		}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		var payload BuildStarted
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Site = payload.Site
			summary.Selective = len(payload.Requested) > 0
		}
		summary.StartedAt = event.Timestamp()

	case TypeSectionBuilt:
		var payload SectionBuilt
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Sections[payload.Section] = SectionSummary{Pages: payload.Pages, Written: payload.Written}
		}

	case TypeIndexWritten:
		var payload IndexWritten
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.IndexPath = payload.Path
			summary.IndexLinks = payload.Links
		}

	case TypeBuildCompleted:
		p.finishLocked(summary, event, StatusCompleted)

	case TypeBuildFailed:
		var payload BuildFailed
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorSection = payload.Section
			summary.ErrorMessage = payload.Error
		}
		p.finishLocked(summary, event, StatusFailed)
	}
}

func (p *BuildHistoryProjection) finishLocked(summary *BuildSummary, event Event, status string) {
	now := event.Timestamp()
	summary.CompletedAt = &now
	summary.Duration = now.Sub(summary.StartedAt)
	summary.Status = status

	for _, h := range p.history {
		if h.BuildID == summary.BuildID {
			return
		}
	}
	p.history = append([]*BuildSummary{summary}, p.history...)
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	p.pruneBuildsLocked()
}

// pruneBuildsLocked drops finished builds that fell out of the bounded history.
func (p *BuildHistoryProjection) pruneBuildsLocked() {
	keep := make(map[string]struct{}, len(p.history))
	for _, h := range p.history {
		keep[h.BuildID] = struct{}{}
	}
	for id, summary := range p.builds {
		if summary.Status == StatusRunning {
			continue
		}
		if _, ok := keep[id]; !ok {
			delete(p.builds, id)
		}
	}
}

// GetHistory returns finished builds, newest first.
func (p *BuildHistoryProjection) GetHistory() []*BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*BuildSummary, len(p.history))
	copy(result, p.history)
	return result
}

// GetBuild returns a copy of the summary for buildID.
func (p *BuildHistoryProjection) GetBuild(buildID string) (*BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, exists := p.builds[buildID]
	if !exists {
		return nil, false
	}
	cp := *summary
	return &cp, true
}

// GetLastCompletedBuild returns the most recently finished build.
func (p *BuildHistoryProjection) GetLastCompletedBuild() *BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.history) == 0 {
		return nil
	}
	cp := *p.history[0]
	return &cp
}
