// Package modelconfig reads the model.config marker file that identifies a
// model directory.
//
// Only the parts the front end needs are decoded: the <name> leaf and the
// <sdf version="..."> entries pointing at the description file. Everything
// else in the file (author, description, dependencies) is ignored.
package modelconfig

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileName is the marker file that identifies a model directory.
const FileName = "model.config"

// LegacyFileName is the deprecated marker still honoured when locating the
// description file.
const LegacyFileName = "manifest.xml"

// ErrNoModelElement is returned when the document root is not <model>.
var ErrNoModelElement = errors.New("model.config: root element <model> not found")

// SDFEntry is one <sdf> child of <model>.
type SDFEntry struct {
	Version string `xml:"version,attr"`
	Path    string `xml:",chardata"`
}

// Config is the decoded subset of a model.config document.
type Config struct {
	// Names holds every direct <name> child; the first one is the display name.
	Names []string   `xml:"name"`
	SDF   []SDFEntry `xml:"sdf"`
}

// DisplayName returns the trimmed text of the first <name> child.
func (c *Config) DisplayName() string {
	if len(c.Names) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Names[0])
}

// Parse decodes a model.config document from r.
func Parse(r io.Reader) (*Config, error) {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoModelElement
			}
			return nil, fmt.Errorf("parse model.config: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "model" {
			return nil, fmt.Errorf("%w: got <%s>", ErrNoModelElement, start.Name.Local)
		}
		var cfg Config
		if err := dec.DecodeElement(&cfg, &start); err != nil {
			return nil, fmt.Errorf("parse model.config: %w", err)
		}
		return &cfg, nil
	}
}

// ParseFile opens and decodes the file at path.
func ParseFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ReadName returns the display name stored in the config at path, or "" when
// the file is missing or malformed.
func ReadName(path string) string {
	cfg, err := ParseFile(path)
	if err != nil {
		return ""
	}
	return cfg.DisplayName()
}
