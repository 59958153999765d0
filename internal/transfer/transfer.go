// Package transfer reads and writes quote files for import and export.
//
// Import is all-or-nothing: the document must be a list of objects with a
// non-blank text and category, checked against a JSON schema before any quote
// is returned. Imported quotes are not deduplicated by the caller.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/five82/quoted/internal/quote"
)

// Format is a file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const maxImportBytes = 16 << 20

// quotesSchema accepts an array of objects with non-blank string fields.
const quotesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "category"],
    "properties": {
      "text": {"type": "string", "pattern": "\\S"},
      "category": {"type": "string", "pattern": "\\S"}
    }
  }
}`

var schema = mustSchema(quotesSchema)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile quotes schema: %v", err))
	}
	return s
}

// ParseFormat accepts "json", "yaml" or "yml". Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Export writes quotes to w. An empty collection is written as an empty list.
func Export(w io.Writer, quotes []quote.Quote, format Format) error {
	if quotes == nil {
		quotes = []quote.Quote{}
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(quotes); err != nil {
			return goerr.Wrap(err, "failed to encode yaml export")
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(quotes); err != nil {
			return goerr.Wrap(err, "failed to encode json export")
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Decode parses an import document. Any malformed or invalid record rejects
// the whole document with quote.ErrImportDecode.
func Decode(r io.Reader, format Format) ([]quote.Quote, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxImportBytes))
	if err != nil {
		return nil, goerr.Wrap(quote.ErrImportDecode, "failed to read import", goerr.V("cause", err.Error()))
	}

	doc, err := toJSON(raw, format)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, goerr.Wrap(quote.ErrImportDecode, "import is not valid JSON", goerr.V("cause", err.Error()))
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, goerr.Wrap(quote.ErrImportDecode, "import does not match the quote list schema",
			goerr.V("problems", problems))
	}

	var decoded []quote.Quote
	if err := json.Unmarshal(doc, &decoded); err != nil {
		return nil, goerr.Wrap(quote.ErrImportDecode, "failed to decode quotes", goerr.V("cause", err.Error()))
	}
	quotes := make([]quote.Quote, 0, len(decoded))
	for i, q := range decoded {
		q = quote.Normalize(q)
		if err := quote.Validate(q); err != nil {
			return nil, goerr.Wrap(quote.ErrImportDecode, "invalid quote in import", goerr.V("index", i))
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// toJSON returns raw as JSON bytes so one schema covers both formats.
func toJSON(raw []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		if !json.Valid(bytes.TrimSpace(raw)) {
			return nil, goerr.Wrap(quote.ErrImportDecode, "import is not valid JSON")
		}
		return raw, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, goerr.Wrap(quote.ErrImportDecode, "import is not valid YAML", goerr.V("cause", err.Error()))
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, goerr.Wrap(quote.ErrImportDecode, "import YAML cannot be represented as JSON", goerr.V("cause", err.Error()))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
