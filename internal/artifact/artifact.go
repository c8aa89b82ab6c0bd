// Package artifact holds the JSON shapes of the artifacts rendered into the
// documentation site. The evaluation engine that produces them lives outside
// this repository; only the fields the default renderers display are modelled.
package artifact

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/identifier"
)

// Notes are free-form annotations. Format is "markdown" or "string".
type Notes struct {
	Format  string   `json:"format,omitempty"`
	Content []string `json:"content,omitempty"`
}

// UnmarshalJSON accepts a bare string, a list of strings, or the object form
// whose content is itself a string or a list of strings.
func (n *Notes) UnmarshalJSON(data []byte) error {
	if content, ok := decodeContent(data); ok {
		*n = Notes{Format: "string", Content: content}
		return nil
	}
	var obj struct {
		Format  string          `json:"format"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	n.Format = obj.Format
	n.Content = nil
	if len(obj.Content) > 0 {
		content, ok := decodeContent(obj.Content)
		if !ok {
			return fmt.Errorf("notes content must be a string or a list of strings")
		}
		n.Content = content
	}
	return nil
}

func decodeContent(data []byte) ([]string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return []string{s}, true
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, true
	}
	return nil, false
}

// Meta is the metadata block shared by suites and results.
type Meta struct {
	Notes                *Notes         `json:"notes,omitempty"`
	ExpectationSuiteName string         `json:"expectation_suite_name,omitempty"`
	RunID                string         `json:"run_id,omitempty"`
	BatchKwargs          map[string]any `json:"batch_kwargs,omitempty"`
}

// Expectation is one expectation configuration.
type Expectation struct {
	ExpectationType string         `json:"expectation_type"`
	Kwargs          map[string]any `json:"kwargs,omitempty"`
	Meta            Meta           `json:"meta"`
}

// ExpectationSuite is a named, ordered list of expectations.
type ExpectationSuite struct {
	ExpectationSuiteName string        `json:"expectation_suite_name"`
	DataAssetType        string        `json:"data_asset_type,omitempty"`
	Expectations         []Expectation `json:"expectations"`
	Meta                 Meta          `json:"meta"`
}

// ExpectationResult is the outcome of evaluating one expectation.
type ExpectationResult struct {
	Success           bool           `json:"success"`
	ExpectationConfig Expectation    `json:"expectation_config"`
	Result            map[string]any `json:"result,omitempty"`
	ExceptionInfo     *struct {
		RaisedException  bool   `json:"raised_exception"`
		ExceptionMessage string `json:"exception_message,omitempty"`
	} `json:"exception_info,omitempty"`
}

// Statistics summarises a validation run.
type Statistics struct {
	EvaluatedExpectations    int     `json:"evaluated_expectations"`
	SuccessfulExpectations   int     `json:"successful_expectations"`
	UnsuccessfulExpectations int     `json:"unsuccessful_expectations"`
	SuccessPercent           float64 `json:"success_percent"`
}

// ValidationResult is the outcome of validating one batch against a suite.
type ValidationResult struct {
	Success    bool                `json:"success"`
	Results    []ExpectationResult `json:"results"`
	Statistics Statistics          `json:"statistics"`
	Meta       Meta                `json:"meta"`
}

// Artifact pairs raw artifact bytes with the identifier they were stored under.
type Artifact struct {
	ID   identifier.ResourceIdentifier
	Data []byte
}

// Suite decodes the artifact as an expectation suite.
func (a Artifact) Suite() (*ExpectationSuite, error) {
	var s ExpectationSuite
	if err := json.Unmarshal(a.Data, &s); err != nil {
		return nil, decodeError(a, err)
	}
	if s.ExpectationSuiteName == "" {
		if id, ok := a.ID.(identifier.ExpectationSuiteIdentifier); ok {
			s.ExpectationSuiteName = id.SuiteName
		}
	}
	return &s, nil
}

// ValidationResult decodes the artifact as a validation result.
func (a Artifact) ValidationResult() (*ValidationResult, error) {
	var r ValidationResult
	if err := json.Unmarshal(a.Data, &r); err != nil {
		return nil, decodeError(a, err)
	}
	if id, ok := a.ID.(identifier.ValidationResultIdentifier); ok {
		if r.Meta.ExpectationSuiteName == "" {
			r.Meta.ExpectationSuiteName = id.Suite.SuiteName
		}
		if r.Meta.RunID == "" {
			r.Meta.RunID = id.RunID
		}
	}
	return &r, nil
}

func decodeError(a Artifact, err error) error {
	key := ""
	if a.ID != nil {
		key = a.ID.Key()
	}
	return errors.WrapError(err, errors.CategoryRender, "decode artifact").
		WithContext("identifier", key).Build()
}
