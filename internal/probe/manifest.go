package probe

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/exrlayers/internal/channel"
)

// ErrInvalidManifest is returned when a channel manifest cannot be decoded.
var ErrInvalidManifest = errors.New("invalid channel manifest")

// manifest is the wire shape of a channel manifest, shared by JSON, YAML and
// TOML. In YAML:
//
//	views: [right, left]
//	parts:
//	  - name: beauty
//	    view: right
//	    channels: [A, B, G, R, Z]
type manifest struct {
	Views []string       `json:"views" yaml:"views" toml:"views"`
	Parts []manifestPart `json:"parts" yaml:"parts" toml:"parts"`
}

type manifestPart struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	View     string   `json:"view" yaml:"view" toml:"view"`
	Channels []string `json:"channels" yaml:"channels" toml:"channels"`
}

// ParseManifest decodes a channel manifest. format must be FormatJSON,
// FormatYAML or FormatTOML.
func ParseManifest(data []byte, format Format) (*File, error) {
	var m manifest
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
	default:
		return nil, fmt.Errorf("%w: manifest format %q", ErrUnsupportedFile, format)
	}
	return m.toFile(format), nil
}

// toFile converts the wire manifest to a File. Empty slices are normalized so
// every decoder gives identical results.
func (m *manifest) toFile(format Format) *File {
	f := &File{Format: format}
	if len(m.Views) > 0 {
		f.Views = m.Views
	}
	for _, p := range m.Parts {
		var chans []string
		if len(p.Channels) > 0 {
			chans = p.Channels
		}
		f.Parts = append(f.Parts, channel.Part{Name: p.Name, Channels: chans})
		f.PartViews = append(f.PartViews, p.View)
	}
	return f
}
