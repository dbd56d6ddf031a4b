package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewFiltersEntries(t *testing.T) {
	list, err := New([]string{" cat ", "", "cat", "dog", strings.Repeat("x", 21)})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, list.Words())

	_, err = New([]string{"", "   "})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestRandomWordComesFromList(t *testing.T) {
	list, err := New([]string{"cat", "dog", "owl"})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.Contains(t, []string{"cat", "dog", "owl"}, list.RandomWord())
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := writeFile(t, "words.json", `[{"word": "house"}, {"word": "tree"}, "boat"]`)
	list, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"house", "tree", "boat"}, list.Words())

	bad := writeFile(t, "bad.json", `[42]`)
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestLoadCSVFile(t *testing.T) {
	path := writeFile(t, "words.csv", "category,word\nanimals,cat\nthings, lamp\nbroken\n")
	list, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "lamp"}, list.Words())

	headless := writeFile(t, "plain.csv", "sun\nmoon\n")
	list, err = LoadFile(headless)
	require.NoError(t, err)
	assert.Equal(t, []string{"sun", "moon"}, list.Words())

	wordOnly := writeFile(t, "header.csv", "Word\nsun\n")
	list, err = LoadFile(wordOnly)
	require.NoError(t, err)
	assert.Equal(t, []string{"sun"}, list.Words())
}

func TestLoadFileRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "words.txt", "cat\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestDefaultList(t *testing.T) {
	list := Default()
	assert.Greater(t, list.Len(), 50)
	for _, word := range list.Words() {
		assert.LessOrEqual(t, len(word), MaxWordLength)
	}
}
