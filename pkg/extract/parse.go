package extract

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Parse reads the model reply. It accepts the JSON object alone, inside
// a fenced code block, or surrounded by prose, and tolerates the
// extraction_class/extraction_text spellings. Entries missing a class or
// text are skipped.
func Parse(raw string) ([]Extraction, error) {
	body := jsonBody(raw)
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: not JSON", ErrInvalidResponse)
	}

	root := gjson.Parse(body)
	list := root.Get("extractions")
	switch {
	case list.IsArray():
	case root.IsArray():
		list = root
	default:
		return nil, fmt.Errorf("%w: missing extractions array", ErrInvalidResponse)
	}

	var out []Extraction
	list.ForEach(func(_, v gjson.Result) bool {
		ext := Extraction{
			Class: firstString(v, "class", "extraction_class"),
			Text:  firstString(v, "text", "extraction_text"),
		}
		if ext.Class == "" || ext.Text == "" {
			return true
		}
		if attrs := v.Get("attributes"); attrs.IsObject() {
			ext.Attributes = make(map[string]string)
			attrs.ForEach(func(k, val gjson.Result) bool {
				ext.Attributes[k.String()] = val.String()
				return true
			})
		}
		out = append(out, ext)
		return true
	})
	return out, nil
}

func firstString(v gjson.Result, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(v.Get(k).String()); s != "" {
			return s
		}
	}
	return ""
}

func jsonBody(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	if gjson.Valid(s) {
		return s
	}
	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
