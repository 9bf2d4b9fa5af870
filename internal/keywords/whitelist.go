package keywords

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmptyWhitelist is returned when no usable keyword is configured.
	ErrEmptyWhitelist = errors.New("keyword whitelist is empty")
	// ErrKeywordCollision is returned when two distinct keywords share a normalized form.
	ErrKeywordCollision = errors.New("keywords collide after normalization")
)

//go:embed keywords.txt
var defaultKeywords string

// Keyword is a whitelist entry in its display form with its normalized form.
type Keyword struct {
	Display    string
	Normalized string
}

// Whitelist is the canonical keyword list. Order is registration order.
type Whitelist struct {
	keywords   []Keyword
	normalized []string
	byNorm     map[string]int
	maxWords   int
}

// NewWhitelist validates entries and builds the whitelist. Repeated display
// strings collapse to one entry; distinct entries with the same normalized form
// are rejected with ErrKeywordCollision.
func NewWhitelist(entries []string) (*Whitelist, error) {
	w := &Whitelist{byNorm: make(map[string]int), maxWords: 1}

	for _, raw := range entries {
		display := strings.TrimSpace(raw)
		if display == "" {
			continue
		}

		norm := Normalize(display)
		if norm == "" {
			return nil, fmt.Errorf("keyword %q has no letters or digits", display)
		}

		if idx, ok := w.byNorm[norm]; ok {
			if w.keywords[idx].Display == display {
				continue
			}
			return nil, fmt.Errorf("%w: %q and %q both normalize to %q",
				ErrKeywordCollision, w.keywords[idx].Display, display, norm)
		}

		w.byNorm[norm] = len(w.keywords)
		w.keywords = append(w.keywords, Keyword{Display: display, Normalized: norm})
		w.normalized = append(w.normalized, norm)
		if n := len(strings.Fields(display)); n > w.maxWords {
			w.maxWords = n
		}
	}

	if len(w.keywords) == 0 {
		return nil, ErrEmptyWhitelist
	}

	return w, nil
}

// ParseList reads one keyword per line, skipping blank lines and # comments.
func ParseList(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keyword list: %w", err)
	}
	return out, nil
}

// DefaultList returns the built-in keyword list.
func DefaultList() []string {
	list, _ := ParseList(strings.NewReader(defaultKeywords))
	return list
}

func (w *Whitelist) Keywords() []Keyword {
	out := make([]Keyword, len(w.keywords))
	copy(out, w.keywords)
	return out
}

// Normalized returns the normalized forms in registration order.
func (w *Whitelist) Normalized() []string {
	return w.normalized
}

// Displays returns the display forms in registration order.
func (w *Whitelist) Displays() []string {
	out := make([]string, len(w.keywords))
	for i, k := range w.keywords {
		out[i] = k.Display
	}
	return out
}

// Lookup resolves a normalized form to its keyword.
func (w *Whitelist) Lookup(normalized string) (Keyword, bool) {
	idx, ok := w.byNorm[normalized]
	if !ok {
		return Keyword{}, false
	}
	return w.keywords[idx], true
}

func (w *Whitelist) index(normalized string) int {
	return w.byNorm[normalized]
}

// MaxWords is the word count of the longest keyword.
func (w *Whitelist) MaxWords() int {
	return w.maxWords
}

func (w *Whitelist) Len() int {
	return len(w.keywords)
}
