// Package extract turns uploaded documents into plain text with one line per
// visual line, the shape the section parser expects.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrNoText          = errors.New("no text content found")
)

// Extensions lists the file extensions File accepts.
func Extensions() []string {
	return []string{".txt", ".text", ".pdf", ".docx"}
}

// Supported reports whether File can read a document named name.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// File extracts the text of the document at path based on its extension.
func File(path string) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		text, err = extractText(path)
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDocx(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Base(path))
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}

	return text, nil
}

// cleanLines collapses runs of horizontal whitespace and drops blank lines.
func cleanLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
