package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// Journal event types.
const (
	TypeBuildStarted   = "build_started"
	TypeSectionBuilt   = "section_built"
	TypePageWritten    = "page_written"
	TypePageUnchanged  = "page_unchanged"
	TypeIndexWritten   = "index_written"
	TypeBuildCompleted = "build_completed"
	TypeBuildFailed    = "build_failed"
)

func newEvent(buildID, eventType string, payload any, metadata map[string]string) (*BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.JournalError("failed to marshal "+eventType+" payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
		EventMetadata:  metadata,
	}, nil
}

// BuildStarted is emitted when a site build begins. Requested holds the
// identifier keys of a selective build and is empty for full builds.
type BuildStarted struct {
	BaseEvent `json:"-"`
	Site      string   `json:"site"`
	Requested []string `json:"requested,omitempty"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID, site string, requested []string) (*BuildStarted, error) {
	e := &BuildStarted{Site: site, Requested: requested}
	base, err := newEvent(buildID, TypeBuildStarted, e, map[string]string{"site": site})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = *base
	return e, nil
}

// SectionBuilt is emitted after a section has rendered its pages.
type SectionBuilt struct {
	BaseEvent `json:"-"`
	Section    string `json:"section"`
	Pages      int    `json:"pages"`
	Written    int    `json:"written"`
	DurationMS int64  `json:"duration_ms"`
}

// NewSectionBuilt creates a SectionBuilt event.
func NewSectionBuilt(buildID, section string, pages, written int, d time.Duration) (*SectionBuilt, error) {
	e := &SectionBuilt{Section: section, Pages: pages, Written: written, DurationMS: d.Milliseconds()}
	base, err := newEvent(buildID, TypeSectionBuilt, e, map[string]string{"section": section})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = *base
	return e, nil
}

// PageRendered is emitted per rendered page, typed page_written or
// page_unchanged depending on whether the target store wrote it.
type PageRendered struct {
	BaseEvent `json:"-"`
	Section    string `json:"section"`
	Identifier string `json:"identifier"`
	Path       string `json:"path"`
}

// NewPageRendered creates a PageRendered event.
func NewPageRendered(buildID, section, identifier, path string, written bool) (*PageRendered, error) {
	typ := TypePageUnchanged
	if written {
		typ = TypePageWritten
	}
	e := &PageRendered{Section: section, Identifier: identifier, Path: path}
	base, err := newEvent(buildID, typ, e, map[string]string{"section": section})
	if err != nil {
		return nil, err
	}
	e.BaseEvent = *base
	return e, nil
}

// IndexWritten is emitted when the index page has been written.
type IndexWritten struct {
	BaseEvent `json:"-"`
	Path  string         `json:"path"`
	Links map[string]int `json:"links"`
}

// NewIndexWritten creates an IndexWritten event; links counts entries per section.
func NewIndexWritten(buildID, path string, links map[string]int) (*IndexWritten, error) {
	e := &IndexWritten{Path: path, Links: links}
	base, err := newEvent(buildID, TypeIndexWritten, e, nil)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = *base
	return e, nil
}

// BuildCompleted is emitted when a build finished successfully.
type BuildCompleted struct {
	BaseEvent `json:"-"`
	IndexPath  string `json:"index_path"`
	DurationMS int64  `json:"duration_ms"`
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID, indexPath string, d time.Duration) (*BuildCompleted, error) {
	e := &BuildCompleted{IndexPath: indexPath, DurationMS: d.Milliseconds()}
	base, err := newEvent(buildID, TypeBuildCompleted, e, nil)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = *base
	return e, nil
}

// BuildFailed is emitted when a build stops on an error. Section is empty when
// the failure happened outside a section (e.g. writing the index).
type BuildFailed struct {
	BaseEvent `json:"-"`
	Section  string `json:"section,omitempty"`
	Category string `json:"category,omitempty"`
	Error    string `json:"error"`
}

// NewBuildFailed creates a BuildFailed event.
func NewBuildFailed(buildID, section string, cause error) (*BuildFailed, error) {
	e := &BuildFailed{Section: section}
	if cause != nil {
		e.Error = cause.Error()
		e.Category = string(errors.GetCategory(cause))
	}
	base, err := newEvent(buildID, TypeBuildFailed, e, nil)
	if err != nil {
		return nil, err
	}
	e.BaseEvent = *base
	return e, nil
}
