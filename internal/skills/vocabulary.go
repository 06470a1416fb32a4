package skills

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// ErrEmptyVocabulary is returned when a vocabulary has no usable entries.
var ErrEmptyVocabulary = errors.New("skill vocabulary is empty")

// Entry maps one lowercase synonym to the canonical skill name it stands for.
type Entry struct {
	Synonym   string `yaml:"synonym"`
	Canonical string `yaml:"canonical"`
}

// Vocabulary is an ordered, immutable list of synonym entries.
type Vocabulary struct {
	entries []Entry
}

// NewVocabulary normalizes the entries (lowercase synonyms, canonical
// fallback) and drops blanks and duplicate synonyms, keeping the first.
func NewVocabulary(entries []Entry) (*Vocabulary, error) {
	seen := make(map[string]bool, len(entries))
	normalized := make([]Entry, 0, len(entries))
	for _, e := range entries {
		synonym := strings.ToLower(strings.TrimSpace(e.Synonym))
		if synonym == "" || seen[synonym] {
			continue
		}
		seen[synonym] = true

		canonical := strings.TrimSpace(e.Canonical)
		if canonical == "" {
			canonical = capitalize(synonym)
		}
		normalized = append(normalized, Entry{Synonym: synonym, Canonical: canonical})
	}
	if len(normalized) == 0 {
		return nil, ErrEmptyVocabulary
	}
	return &Vocabulary{entries: normalized}, nil
}

// ParseVocabulary reads a YAML list of entries.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}
	return NewVocabulary(entries)
}

// LoadVocabulary reads a vocabulary file. An empty path yields the built-in vocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file %q: %w", path, err)
	}
	return ParseVocabulary(data)
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in vocabulary: %v", err))
	}
	return v
}

func (v *Vocabulary) Len() int {
	return len(v.entries)
}

// Entries returns a copy of the vocabulary in its configured order.
func (v *Vocabulary) Entries() []Entry {
	return append([]Entry(nil), v.entries...)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
