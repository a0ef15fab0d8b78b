package docconvert

import (
	"io"
	"path/filepath"
	"strings"
)

// Converter extracts plain text from a binary document. Implementations are
// registered per file type; the caller picks one with ForFile.
type Converter interface {
	Supports(filename string) bool
	Convert(r io.Reader) (string, error)
}

// ForFile returns the first converter that supports filename, or nil.
func ForFile(converters []Converter, filename string) Converter {
	for _, c := range converters {
		if c.Supports(filename) {
			return c
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
