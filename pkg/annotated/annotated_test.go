package annotated

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/lxstarter/pkg/extract"
)

func sampleDocs() []*extract.AnnotatedDocument {
	text := "Lady Juliet gazed longingly at the stars, her heart aching for Romeo"
	return []*extract.AnnotatedDocument{
		{
			DocumentID: extract.DocumentID(text),
			Text:       text,
			Extractions: []extract.Extraction{
				{Class: "character", Text: "Lady Juliet", Attributes: map[string]string{"emotional_state": "longing"}, Interval: &extract.CharInterval{Start: 0, End: 11}},
				{Class: "emotion", Text: "heart aching", Interval: nil},
			},
		},
		{DocumentID: extract.DocumentID("empty"), Text: "empty"},
	}
}

func TestSaveLoad(t *testing.T) {
	for _, name := range []string{"results.jsonl", "results.jsonl.gz"} {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "outputs")
			run := NewRun("gemini-2.5-flash")

			path, err := Save(dir, name, run, sampleDocs())
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, name), path)

			recs, err := Load(path)
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, run.ID, recs[0].RunID)
			assert.Equal(t, "gemini-2.5-flash", recs[0].Model)
			assert.True(t, run.At.Equal(recs[0].CreatedAt))

			docs := Documents(recs)
			assert.Equal(t, sampleDocs()[0], docs[0])
			assert.Empty(t, docs[1].Extractions)
		})
	}
}

func TestSave_PlainIsJSONLines(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, "r.jsonl", NewRun("m"), sampleDocs())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"extraction_class":"character"`)
	assert.Contains(t, lines[0], `"char_interval":{"start_pos":0,"end_pos":11}`)
	assert.Contains(t, lines[1], `"extractions":[]`)
}

func TestSave_GzipIsCompressed(t *testing.T) {
	path, err := Save(t.TempDir(), "r.jsonl.gz", NewRun("m"), sampleDocs())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, data[:2])
}

func TestRead(t *testing.T) {
	recs, err := Read(strings.NewReader(`{"document_id":"doc_1","text":"a","extractions":[]}` + "\n\n" +
		`{"document_id":"doc_2","text":"b","extractions":[{"extraction_class":"c","extraction_text":"b"}]}` + "\n"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "doc_2", recs[1].DocumentID)
	assert.Empty(t, recs[1].RunID)

	_, err = Read(strings.NewReader("{not json}\n"))
	assert.ErrorContains(t, err, "line 1")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}
