// Package catalog loads the prescription reference catalog from disk.
// The catalog is a JSON array of drug entries; loading happens once at
// startup and again on every full reload.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/medivoice/medivoice-api/catalog/entities"
	"github.com/medivoice/medivoice-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// LoadError reports a catalog that could not be read or decoded. It is fatal
// at startup: without a catalog the process must refuse to serve matching
// requests.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog load failed for %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Parser reads drug entries from a JSON-array file.
type Parser struct {
	path string
}

// NewParser creates a parser bound to the given catalog file path.
func NewParser(path string) *Parser {
	return &Parser{path: path}
}

// ParseCatalog reads and decodes the whole catalog file.
// Ministry exports are sometimes ISO-8859-1; non-UTF-8 content is decoded
// from Latin-1 before unmarshalling.
func (p *Parser) ParseCatalog() ([]entities.Drug, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, &LoadError{Path: p.path, Err: err}
	}

	if !utf8.Valid(raw) {
		decoded, decErr := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if decErr != nil {
			return nil, &LoadError{Path: p.path, Err: fmt.Errorf("decode ISO-8859-1: %w", decErr)}
		}
		raw = decoded
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &LoadError{Path: p.path, Err: fmt.Errorf("catalog must be a JSON array")}
	}

	var drugs []entities.Drug
	if err := json.Unmarshal(trimmed, &drugs); err != nil {
		return nil, &LoadError{Path: p.path, Err: fmt.Errorf("invalid JSON array: %w", err)}
	}

	logging.Info("Catalog parsed", "path", p.path, "drug_count", len(drugs))
	return drugs, nil
}
