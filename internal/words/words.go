// Package words provides the secret word sources a game draws from.
package words

import (
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"draw-guess/internal/db"

	"gorm.io/gorm"
)

// MaxWordLength matches the longest guess a client may submit.
const MaxWordLength = 20

//go:embed words.json
var defaultWords []byte

var ErrEmpty = errors.New("word list is empty")

// List is a fixed set of words. It is safe for concurrent use.
type List struct {
	words []string
}

// New keeps the usable entries of words: trimmed, non-empty, not longer than
// MaxWordLength and without duplicates.
func New(words []string) (*List, error) {
	seen := make(map[string]struct{}, len(words))
	kept := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" || len(word) > MaxWordLength {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return nil, ErrEmpty
	}
	return &List{words: kept}, nil
}

func (l *List) RandomWord() string {
	return l.words[rand.IntN(len(l.words))]
}

func (l *List) Len() int {
	return len(l.words)
}

func (l *List) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}

// Default is the list bundled with the binary.
func Default() *List {
	words, err := parseJSON(strings.NewReader(string(defaultWords)))
	if err != nil {
		panic(fmt.Sprintf("embedded words: %v", err))
	}
	list, err := New(words)
	if err != nil {
		panic(fmt.Sprintf("embedded words: %v", err))
	}
	return list
}

// ReadFile reads words from a .json or .csv file.
func ReadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(file)
	case ".csv":
		return parseCSV(file)
	default:
		return nil, fmt.Errorf("unsupported word file %q: want .json or .csv", path)
	}
}

func LoadFile(path string) (*List, error) {
	words, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(words)
}

func LoadDB(conn *gorm.DB) (*List, error) {
	words, err := db.ListWords(conn)
	if err != nil {
		return nil, err
	}
	return New(words)
}

type wordRecord struct {
	Word string `json:"word"`
}

// parseJSON accepts either [{"word": "..."}] or a plain array of strings.
func parseJSON(r io.Reader) ([]string, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(raw))
	for i, entry := range raw {
		var record wordRecord
		if err := json.Unmarshal(entry, &record); err == nil {
			words = append(words, record.Word)
			continue
		}
		var plain string
		if err := json.Unmarshal(entry, &plain); err != nil {
			return nil, fmt.Errorf("entry %d: want object or string", i)
		}
		words = append(words, plain)
	}
	return words, nil
}

// parseCSV takes the "word" column when the first row is a header naming
// one. Without such a header every row is data and the first column is used.
func parseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	column := 0
	header := false
	for i, name := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(name), "word") {
			column = i
			header = true
			break
		}
	}
	if header {
		rows = rows[1:]
	}

	var words []string
	for _, row := range rows {
		if len(row) <= column {
			continue
		}
		words = append(words, row[column])
	}
	return words, nil
}
