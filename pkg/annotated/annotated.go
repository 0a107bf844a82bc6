// Package annotated persists annotated documents as JSON Lines.
package annotated

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/vertti/lxstarter/pkg/extract"
)

// Record is one line of a results file.
type Record struct {
	extract.AnnotatedDocument
	RunID     string    `json:"run_id,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Run groups the documents produced by one invocation.
type Run struct {
	ID    string
	Model string
	At    time.Time
}

// NewRun starts a run with a fresh ID.
func NewRun(model string) Run {
	return Run{ID: uuid.New().String(), Model: model, At: time.Now().UTC()}
}

// Save writes docs to dir/name, one JSON object per line, creating dir
// if needed. Names ending in .gz are gzip-compressed. It returns the
// path written.
func Save(dir, name string, run Run, docs []*extract.AnnotatedDocument) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	werr := write(f, compressed(name), run, docs)
	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = fmt.Errorf("close %s: %w", path, cerr)
	}
	if werr != nil {
		return "", werr
	}
	return path, nil
}

func write(w io.Writer, gz bool, run Run, docs []*extract.AnnotatedDocument) error {
	var zw *gzip.Writer
	if gz {
		zw = gzip.NewWriter(w)
		w = zw
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, d := range docs {
		rec := Record{AnnotatedDocument: *d, RunID: run.ID, Model: run.Model, CreatedAt: run.At}
		if rec.Extractions == nil {
			rec.Extractions = []extract.Extraction{}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode %s: %w", d.DocumentID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
	}
	return nil
}

// Load reads every record from path, plain or gzip-compressed.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if compressed(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}
	return Read(r)
}

// Read decodes JSON Lines from r. Blank lines are skipped.
func Read(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(strings.TrimSpace(string(b))) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return out, nil
}

// Documents strips the run metadata from records.
func Documents(recs []Record) []*extract.AnnotatedDocument {
	docs := make([]*extract.AnnotatedDocument, len(recs))
	for i := range recs {
		docs[i] = &recs[i].AnnotatedDocument
	}
	return docs
}

func compressed(name string) bool {
	return strings.HasSuffix(name, ".gz")
}
