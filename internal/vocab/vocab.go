// internal/vocab/vocab.go
//
// Vocabulary + embedding table for the hint engine.
//
// Responsibilities:
//   - Build an immutable word → vector table from two aligned sequences.
//   - Load the puzzle data payload from a file (plain or gzipped JSON) or
//     fall back to the embedded default.
//   - Expose lookups used by the engine: Words, Embedding, Len, Dim.
//
// Payload format (one JSON document, produced by the data pipeline):
//
//	{"hint_words": ["cat", ...], "hint_embeddings": [[0.12, ...], ...]}
//
// Construction policy:
//   • A word whose embedding slot is missing, empty, or of the wrong
//     dimensionality is skipped — sparse source data is tolerated.
//   • Duplicate words are skipped (first occurrence wins).
//   • Words are normalized to trimmed lowercase.
//
// The table never mutates after construction; callers share it by
// read-only reference.

package vocab

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/driftword/go-server/assets"
)

// Table is the immutable vocabulary with index-aligned embeddings.
type Table struct {
	words  []string
	byWord map[string][]float64
	dim    int
}

// New builds a Table from a vocabulary and an aligned embedding list.
// Entries failing the construction policy are dropped, not fatal.
// Returns an error only when nothing usable remains.
func New(words []string, embeddings [][]float64) (*Table, error) {
	t := &Table{byWord: make(map[string][]float64, len(words))}
	for i, raw := range words {
		w := strings.ToLower(strings.TrimSpace(raw))
		if w == "" || i >= len(embeddings) || len(embeddings[i]) == 0 {
			continue
		}
		if _, dup := t.byWord[w]; dup {
			continue
		}
		if t.dim == 0 {
			t.dim = len(embeddings[i])
		} else if len(embeddings[i]) != t.dim {
			continue
		}
		t.words = append(t.words, w)
		t.byWord[w] = embeddings[i]
	}
	if len(t.words) == 0 {
		return nil, fmt.Errorf("vocab: no usable word/embedding pairs (words=%d, embeddings=%d)", len(words), len(embeddings))
	}
	return t, nil
}

// Words returns the vocabulary in table order. Callers must not mutate it.
func (t *Table) Words() []string { return t.words }

// Embedding looks up the vector for a word (lowercased on the way in).
func (t *Table) Embedding(word string) ([]float64, bool) {
	v, ok := t.byWord[strings.ToLower(word)]
	return v, ok
}

// Contains reports whether word is in the vocabulary.
func (t *Table) Contains(word string) bool {
	_, ok := t.byWord[strings.ToLower(word)]
	return ok
}

// Len returns the number of usable vocabulary entries.
func (t *Table) Len() int { return len(t.words) }

// Dim returns the shared embedding dimensionality.
func (t *Table) Dim() int { return t.dim }

// payload mirrors the puzzle data JSON document.
type payload struct {
	HintWords      []string    `json:"hint_words"`
	HintEmbeddings [][]float64 `json:"hint_embeddings"`
}

// Parse decodes a puzzle data JSON document into a Table.
func Parse(data []byte) (*Table, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("vocab: decode payload: %w", err)
	}
	return New(p.HintWords, p.HintEmbeddings)
}

// Load reads a puzzle data file. Files ending in ".gz" are decompressed
// transparently.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("vocab: gunzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("vocab: read %s: %w", path, err)
	}
	return Parse(data)
}

// Default builds the table from the embedded payload so the server can
// run with no configuration.
func Default() (*Table, error) {
	return Parse(assets.DefaultPuzzleData())
}
