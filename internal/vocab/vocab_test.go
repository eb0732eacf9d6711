package vocab

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlignsWordsAndEmbeddings(t *testing.T) {
	tab, err := New(
		[]string{"cat", "dog", "car"},
		[][]float64{{1, 0}, {0, 1}, {-1, -1}},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())
	assert.Equal(t, 2, tab.Dim())
	assert.Equal(t, []string{"cat", "dog", "car"}, tab.Words())

	v, ok := tab.Embedding("dog")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1}, v)

	_, ok = tab.Embedding("missing")
	assert.False(t, ok)
}

func TestNewSkipsBadEntries(t *testing.T) {
	tab, err := New(
		[]string{"cat", "", "dog", "cat", "bird", "fish", "cow"},
		[][]float64{
			{1, 0},
			{9, 9},     // empty word: skipped
			{0, 1},
			{5, 5},     // duplicate word: skipped
			{},         // empty embedding: skipped
			{1, 2, 3},  // wrong dimensionality: skipped
			// "cow" has no aligned slot at all: skipped
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, tab.Words())

	v, _ := tab.Embedding("cat")
	assert.Equal(t, []float64{1, 0}, v)
}

func TestNewNormalizesCase(t *testing.T) {
	tab, err := New([]string{"  CaT "}, [][]float64{{1}})
	require.NoError(t, err)
	assert.True(t, tab.Contains("cat"))
	assert.True(t, tab.Contains("CAT"))
	_, ok := tab.Embedding("Cat")
	assert.True(t, ok)
}

func TestNewEmptyTableFails(t *testing.T) {
	_, err := New([]string{"cat"}, nil)
	assert.Error(t, err)
}

func TestParsePayload(t *testing.T) {
	tab, err := Parse([]byte(`{"hint_words":["cat","dog"],"hint_embeddings":[[0.5,0.5],[0.1,0.9]]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Len())
	assert.Equal(t, 2, tab.Dim())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestLoadPlainAndGzip(t *testing.T) {
	payload := []byte(`{"hint_words":["cat"],"hint_embeddings":[[1,2,3]]}`)
	dir := t.TempDir()

	plain := filepath.Join(dir, "puzzle_data.json")
	require.NoError(t, os.WriteFile(plain, payload, 0o644))

	zipped := filepath.Join(dir, "puzzle_data.json.gz")
	f, err := os.Create(zipped)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	for _, path := range []string{plain, zipped} {
		tab, err := Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, 1, tab.Len())
		assert.Equal(t, 3, tab.Dim())
	}
}

func TestDefaultPayloadLoads(t *testing.T) {
	tab, err := Default()
	require.NoError(t, err)
	assert.Greater(t, tab.Len(), 0)
	assert.Greater(t, tab.Dim(), 0)
	assert.True(t, tab.Contains("cat"))
}
