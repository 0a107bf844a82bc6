package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/vertti/lxstarter/pkg/testutil"
)

// fakeProvider answers with reply(input) where input is the chunk text
// embedded in the prompt.
type fakeProvider struct {
	reply    func(input string) (string, error)
	calls    atomic.Int32
	mu       sync.Mutex
	prompts  []string
	temps    []*float64
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }
func (f *fakeProvider) Ping(context.Context) error {
	return nil
}

func (f *fakeProvider) Generate(_ context.Context, req Request) (string, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.temps = append(f.temps, req.Temperature)
	f.mu.Unlock()

	input := req.Prompt[strings.LastIndex(req.Prompt, "Q: ")+3:]
	input = strings.TrimSuffix(strings.TrimSpace(input), "A:")
	return f.reply(strings.TrimSpace(input))
}

// namesReply tags every capitalized name from a fixed list.
func namesReply(input string) (string, error) {
	var items []string
	for _, name := range []string{"Juliet", "Romeo", "Tybalt"} {
		if strings.Contains(input, name) {
			items = append(items, fmt.Sprintf(`{"class":"character","text":%q,"attributes":{"name":%q}}`, name, name))
		}
	}
	return `{"extractions":[` + strings.Join(items, ",") + `]}`, nil
}

func TestDocumentID(t *testing.T) {
	id := DocumentID("Hello world! This is a test.")
	assert.Regexp(t, `^doc_[0-9a-f]{8}$`, id)
	assert.Equal(t, id, DocumentID("Hello world! This is a test."))
	assert.NotEqual(t, id, DocumentID("Hello world!"))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"fits", "short text", 100, []string{"short text"}},
		{"sentence boundary", "One two. Three four. Five", 12, []string{"One two. ", "Three four. ", "Five"}},
		{"whitespace boundary", "alpha beta gamma", 8, []string{"alpha ", "beta ", "gamma"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"multibyte runes", "ééééé", 2, []string{"éé", "éé", "é"}},
		{"blank dropped", "abc\n\n\n", 4, []string{"abc\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, tt.max)
			var got []string
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.Equal(t, c.Text, tt.text[c.Offset:c.Offset+len(c.Text)])
				got = append(got, c.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []Extraction
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"extractions":[{"class":"character","text":"ROMEO","attributes":{"emotional_state":"wonder"}}]}`,
			want: []Extraction{{Class: "character", Text: "ROMEO", Attributes: map[string]string{"emotional_state": "wonder"}}},
		},
		{
			name: "fenced",
			raw:  "```json\n{\"extractions\":[{\"class\":\"emotion\",\"text\":\"But soft!\"}]}\n```",
			want: []Extraction{{Class: "emotion", Text: "But soft!"}},
		},
		{
			name: "prose around object and alternate keys",
			raw:  `Here you go: {"extractions":[{"extraction_class":"medication","extraction_text":"Aspirin"}]} done`,
			want: []Extraction{{Class: "medication", Text: "Aspirin"}},
		},
		{
			name: "bare array, incomplete entries skipped",
			raw:  `[{"class":"a","text":"x"},{"class":"b"}]`,
			want: []Extraction{{Class: "a", Text: "x"}},
		},
		{name: "empty", raw: `{"extractions":[]}`},
		{name: "not json", raw: "sorry, I cannot help", wantErr: true},
		{name: "wrong shape", raw: `{"result":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlign(t *testing.T) {
	c := Chunk{Offset: 100, Text: "Romeo loves Juliet. romeo sighs. Romeo"}
	exts := Align(c, []Extraction{
		{Class: "character", Text: "Romeo"},
		{Class: "character", Text: "Romeo"},
		{Class: "character", Text: "JULIET"},
		{Class: "emotion", Text: "despair"},
	})

	require.NotNil(t, exts[0].Interval)
	assert.Equal(t, CharInterval{Start: 100, End: 105}, *exts[0].Interval)
	require.NotNil(t, exts[1].Interval)
	assert.Equal(t, "Romeo", c.Text[exts[1].Interval.Start-100:exts[1].Interval.End-100])
	assert.Equal(t, 133, exts[1].Interval.Start, "second occurrence binds to the next exact match")
	require.NotNil(t, exts[2].Interval)
	assert.Equal(t, CharInterval{Start: 112, End: 118}, *exts[2].Interval)
	assert.Nil(t, exts[3].Interval)
}

func TestMerge(t *testing.T) {
	kept := []Extraction{{Class: "a", Text: "x", Interval: &CharInterval{0, 5}}, {Class: "b", Text: "loose"}}
	later := []Extraction{
		{Class: "a", Text: "y", Interval: &CharInterval{3, 8}},  // overlaps
		{Class: "c", Text: "z", Interval: &CharInterval{10, 12}}, // new
		{Class: "b", Text: "loose"},                              // duplicate unaligned
		{Class: "d", Text: "other"},                              // new unaligned
	}

	got := Merge(kept, later)

	var texts []string
	for _, e := range got {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"x", "loose", "z", "other"}, texts)
}

func TestMerge_KeepsSameBatchOverlaps(t *testing.T) {
	kept := []Extraction{{Class: "name", Text: "Romeo", Interval: &CharInterval{0, 5}}}
	later := []Extraction{
		{Class: "medication", Text: "aspirin 81 mg", Interval: &CharInterval{10, 23}},
		{Class: "dosage", Text: "81 mg", Interval: &CharInterval{18, 23}},
	}

	got := Merge(kept, later)
	assert.Len(t, got, 3)
}

func TestPrompterRender(t *testing.T) {
	p := NewPrompter()
	out, err := p.Render("  Extract characters.\n", []ExampleData{{
		Text:        "ROMEO. But soft!",
		Extractions: []Extraction{{Class: "character", Text: "ROMEO"}},
	}}, "Lady Juliet gazed")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Extract characters.\n"))
	assert.Contains(t, out, "Q: ROMEO. But soft!")
	assert.Contains(t, out, `"class":"character"`)
	assert.True(t, strings.HasSuffix(out, "Q: Lady Juliet gazed\nA:"))

	out, err = p.Render("Extract greetings.", nil, "Hello")
	require.NoError(t, err)
	assert.NotContains(t, out, "Examples:")
}

func TestExtract(t *testing.T) {
	text := "Lady Juliet gazed at the stars. Romeo waited below. Tybalt drew his sword."
	fp := &fakeProvider{reply: namesReply}
	ex := &Extractor{Provider: fp, Delay: time.Millisecond}

	doc, err := ex.Extract(context.Background(), text, "Extract characters.", nil, Options{MaxCharBuffer: 32, MaxWorkers: 2})
	require.NoError(t, err)

	assert.Equal(t, DocumentID(text), doc.DocumentID)
	assert.Equal(t, text, doc.Text)
	require.Len(t, doc.Extractions, 3)
	for i, want := range []string{"Juliet", "Romeo", "Tybalt"} {
		e := doc.Extractions[i]
		assert.Equal(t, want, e.Text)
		require.NotNil(t, e.Interval)
		assert.Equal(t, want, text[e.Interval.Start:e.Interval.End])
	}
	assert.Equal(t, int32(3), fp.calls.Load())
	assert.LessOrEqual(t, fp.peak.Load(), int32(2))
}

func TestExtract_ForwardsTemperature(t *testing.T) {
	fp := &fakeProvider{reply: namesReply}
	ex := &Extractor{Provider: fp, Delay: time.Millisecond}

	_, err := ex.Extract(context.Background(), "Romeo", "Extract characters.", nil, Options{Temperature: testutil.Ptr(0.3)})
	require.NoError(t, err)

	require.Len(t, fp.temps, 1)
	require.NotNil(t, fp.temps[0])
	assert.InDelta(t, 0.3, *fp.temps[0], 1e-9)
}

func TestExtract_SinglePassKeepsOverlaps(t *testing.T) {
	fp := &fakeProvider{reply: func(string) (string, error) {
		return `{"extractions":[{"class":"medication","text":"aspirin 81 mg"},{"class":"dosage","text":"81 mg"}]}`, nil
	}}
	ex := &Extractor{Provider: fp, Delay: time.Millisecond}

	doc, err := ex.Extract(context.Background(), "Patient takes aspirin 81 mg daily.", "p", nil, Options{Passes: 1})
	require.NoError(t, err)
	require.Len(t, doc.Extractions, 2)
	assert.Equal(t, "aspirin 81 mg", doc.Extractions[0].Text)
	assert.Equal(t, "81 mg", doc.Extractions[1].Text)
}

func TestExtract_PassesMerge(t *testing.T) {
	text := "Romeo and Juliet"
	var pass atomic.Int32
	fp := &fakeProvider{reply: func(string) (string, error) {
		if pass.Add(1) == 1 {
			return `{"extractions":[{"class":"character","text":"Romeo"}]}`, nil
		}
		return `{"extractions":[{"class":"character","text":"Romeo"},{"class":"character","text":"Juliet"}]}`, nil
	}}
	ex := &Extractor{Provider: fp, Delay: time.Millisecond}

	doc, err := ex.Extract(context.Background(), text, "p", nil, Options{Passes: 2})
	require.NoError(t, err)
	require.Len(t, doc.Extractions, 2)
	assert.Equal(t, "Romeo", doc.Extractions[0].Text)
	assert.Equal(t, "Juliet", doc.Extractions[1].Text)
}

func TestExtract_RetriesTransientFailures(t *testing.T) {
	var n atomic.Int32
	fp := &fakeProvider{reply: func(input string) (string, error) {
		if n.Add(1) < 3 {
			return "", errors.New("503 unavailable")
		}
		return namesReply(input)
	}}
	ex := &Extractor{Provider: fp, Delay: time.Millisecond}

	doc, err := ex.Extract(context.Background(), "Romeo", "p", nil, Options{})
	require.NoError(t, err)
	assert.Len(t, doc.Extractions, 1)
	assert.Equal(t, int32(3), fp.calls.Load())
}

func TestExtract_GivesUp(t *testing.T) {
	fp := &fakeProvider{reply: func(string) (string, error) { return "", errors.New("API key not valid") }}
	ex := &Extractor{Provider: fp, Attempts: 2, Delay: time.Millisecond}

	_, err := ex.Extract(context.Background(), "Romeo", "p", nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(2), fp.calls.Load())
}

func TestExtract_ClientErrorIsFinal(t *testing.T) {
	fp := &fakeProvider{reply: func(string) (string, error) {
		return "", genai.APIError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"}
	}}
	ex := &Extractor{Provider: fp, Delay: time.Millisecond}

	_, err := ex.Extract(context.Background(), "Romeo", "p", nil, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, int32(1), fp.calls.Load())
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", errors.New("connection reset"), true},
		{"rate limited", genai.APIError{Code: 429}, true},
		{"server error", genai.APIError{Code: 503}, true},
		{"request timeout", genai.APIError{Code: 408}, true},
		{"bad request", genai.APIError{Code: 400}, false},
		{"forbidden wrapped", fmt.Errorf("generate: %w", genai.APIError{Code: 403}), false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("chunk: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestExtract_NoText(t *testing.T) {
	ex := &Extractor{Provider: &fakeProvider{reply: namesReply}}
	_, err := ex.Extract(context.Background(), "   ", "p", nil, Options{})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractAll(t *testing.T) {
	ex := &Extractor{Provider: &fakeProvider{reply: namesReply}, Delay: time.Millisecond}
	docs, err := ex.ExtractAll(context.Background(), []string{"Romeo", "Juliet"}, "p", nil, Options{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Romeo", docs[0].Extractions[0].Text)
	assert.Equal(t, "Juliet", docs[1].Extractions[0].Text)
}

func TestProviderFor(t *testing.T) {
	_, err := ProviderFor(context.Background(), "gemini-2.5-flash", "")
	assert.Error(t, err)

	_, err = ProviderFor(context.Background(), "llama3", "key")
	assert.ErrorContains(t, err, "unsupported model")

	p, err := ProviderFor(context.Background(), "gpt-4o-mini", "key")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o-mini", p.Model())

	p, err = ProviderFor(context.Background(), "o3-mini", "key")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = ProviderFor(context.Background(), "gemini-2.5-flash", "key")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}
