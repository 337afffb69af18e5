package canopy

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// Format selects the syntax of a scene document.
type Format uint8

const (
	FormatJSON Format = iota // JSON, parsed with ojg
	FormatYAML               // YAML 1.2, parsed with yaml.v3
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// FormatForPath picks a format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatForPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

var errRootNotObject = errors.New("document root is not an object")

// ParseDocument parses data and returns the root node record. A top-level
// "nodeTree" object, when present, is the root record; otherwise the
// document itself is. source names the document in errors.
func ParseDocument(data []byte, format Format, source string) (Record, error) {
	if source == "" {
		source = "<content>"
	}
	var (
		v   any
		err error
	)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &v)
	default:
		v, err = oj.Parse(data)
	}
	if err != nil {
		return Record{}, &ParseError{Source: source, Err: err}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Record{}, &ParseError{Source: source, Err: errRootNotObject}
	}
	doc := NewRecord(m)
	if tree, ok := doc.Record(KeyNodeTree); ok {
		return tree, nil
	}
	return doc, nil
}
