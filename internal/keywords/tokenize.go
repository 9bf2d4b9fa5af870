package keywords

import "strings"

// isDelimiter reports whether r separates keyword tokens.
func isDelimiter(r rune) bool {
	switch r {
	case ',', '\n', ';', '•', '-':
		return true
	}
	return false
}

// Tokens splits text on the keyword delimiters and trims each piece.
// Empty pieces are dropped.
func Tokens(text string) []string {
	pieces := strings.FieldsFunc(text, isDelimiter)
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Forms returns the normalized form of every delimiter token of text. Forms
// shorter than two characters are dropped and every form appears once, at its
// first position.
func Forms(text string) []string {
	var f forms
	for _, token := range Tokens(text) {
		f.add(Normalize(token))
	}
	return f.out
}

// Windows returns the normalized form of each run of up to maxWords
// consecutive words inside every delimiter token of text, in the same order
// and with the same filtering as Forms.
func Windows(text string, maxWords int) []string {
	if maxWords < 1 {
		maxWords = 1
	}

	var f forms
	for _, token := range Tokens(text) {
		words := strings.Fields(token)
		for i := range words {
			for n := 1; n <= maxWords && i+n <= len(words); n++ {
				f.add(Normalize(strings.Join(words[i:i+n], " ")))
			}
		}
	}
	return f.out
}

type forms struct {
	out  []string
	seen map[string]struct{}
}

func (f *forms) add(s string) {
	if len(s) <= 1 {
		return
	}
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	if _, ok := f.seen[s]; ok {
		return
	}
	f.seen[s] = struct{}{}
	f.out = append(f.out, s)
}
