package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tyler-sommer/stick"
)

const promptTemplate = `{{ description }}

Respond with a single JSON object of the form:
{"extractions": [{"class": "<class>", "text": "<exact text from the input>", "attributes": {"<name>": "<value>"}}]}
Use text copied exactly from the input. Return {"extractions": []} if nothing applies.
{% if has_examples %}
Examples:
{% for ex in examples %}
Q: {{ ex.Text }}
A: {{ ex.Answer }}
{% endfor %}{% endif %}
Q: {{ input }}
A:`

// promptExample is an ExampleData flattened for the template.
type promptExample struct {
	Text   string
	Answer string
}

// Prompter renders few-shot prompts.
type Prompter struct {
	env *stick.Env
	tpl string
}

// NewPrompter returns a Prompter using the built-in template.
func NewPrompter() *Prompter {
	return &Prompter{env: stick.New(nil), tpl: promptTemplate}
}

// Render builds the prompt for one chunk of input.
func (p *Prompter) Render(description string, examples []ExampleData, input string) (string, error) {
	exs := make([]stick.Value, 0, len(examples))
	for _, ex := range examples {
		answer, err := answerJSON(ex.Extractions)
		if err != nil {
			return "", err
		}
		exs = append(exs, promptExample{Text: ex.Text, Answer: answer})
	}

	ctx := map[string]stick.Value{
		"description":  strings.TrimSpace(description),
		"examples":     exs,
		"has_examples": len(exs) > 0,
		"input":        input,
	}
	var out strings.Builder
	if err := p.env.Execute(p.tpl, &out, ctx); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out.String(), nil
}

type wireExtraction struct {
	Class      string            `json:"class"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func answerJSON(exts []Extraction) (string, error) {
	wire := struct {
		Extractions []wireExtraction `json:"extractions"`
	}{Extractions: make([]wireExtraction, 0, len(exts))}
	for _, e := range exts {
		wire.Extractions = append(wire.Extractions, wireExtraction{Class: e.Class, Text: e.Text, Attributes: e.Attributes})
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode example: %w", err)
	}
	return string(b), nil
}
