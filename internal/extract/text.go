package extract

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// extractText reads a plain text file. Files that are not valid UTF-8 are
// decoded as Windows-1252, the usual encoding of exported résumés.
func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
	}

	text := cleanLines(string(data))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
