// Package extract turns free text into labeled spans by prompting a
// language model with a description and a few worked examples.
package extract

import (
	"encoding/hex"
	"errors"

	"github.com/zeebo/blake3"
)

// Defaults applied by Options.withDefaults.
const (
	DefaultModelID       = "gemini-2.5-flash"
	DefaultMaxCharBuffer = 1000
	DefaultMaxWorkers    = 10
	DefaultPasses        = 1
)

var (
	// ErrNoText is returned when there is nothing to extract from.
	ErrNoText = errors.New("no input text")
	// ErrInvalidResponse means the model reply was not the expected JSON.
	ErrInvalidResponse = errors.New("invalid model response")
)

// CharInterval is a half-open byte range [Start, End) into the source text.
type CharInterval struct {
	Start int `json:"start_pos" yaml:"start_pos"`
	End   int `json:"end_pos" yaml:"end_pos"`
}

// Overlaps reports whether two intervals share at least one byte.
func (c CharInterval) Overlaps(o CharInterval) bool {
	return c.Start < o.End && o.Start < c.End
}

// Extraction is one labeled span.
type Extraction struct {
	Class      string            `json:"extraction_class" yaml:"class"`
	Text       string            `json:"extraction_text" yaml:"text"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Interval   *CharInterval     `json:"char_interval,omitempty" yaml:"-"`
}

// ExampleData is a worked example shown to the model.
type ExampleData struct {
	Text        string       `json:"text" yaml:"text"`
	Extractions []Extraction `json:"extractions" yaml:"extractions"`
}

// Document is an input text with a stable identifier.
type Document struct {
	ID   string
	Text string
}

// NewDocument derives the identifier from the text.
func NewDocument(text string) Document {
	return Document{ID: DocumentID(text), Text: text}
}

// AnnotatedDocument is a document together with its extractions.
type AnnotatedDocument struct {
	DocumentID  string       `json:"document_id"`
	Text        string       `json:"text"`
	Extractions []Extraction `json:"extractions"`
}

// DocumentID is "doc_" followed by the first 8 hex digits of the
// blake3 digest of text.
func DocumentID(text string) string {
	sum := blake3.Sum256([]byte(text))
	return "doc_" + hex.EncodeToString(sum[:4])
}

// Options tune a single extraction call.
type Options struct {
	ModelID       string   `yaml:"model_id" json:"model_id"`
	MaxCharBuffer int      `yaml:"max_char_buffer" json:"max_char_buffer"`
	MaxWorkers    int      `yaml:"max_workers" json:"max_workers"`
	Passes        int      `yaml:"extraction_passes" json:"extraction_passes"`
	Temperature   *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.ModelID == "" {
		o.ModelID = DefaultModelID
	}
	if o.MaxCharBuffer <= 0 {
		o.MaxCharBuffer = DefaultMaxCharBuffer
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.Passes <= 0 {
		o.Passes = DefaultPasses
	}
	return o
}
