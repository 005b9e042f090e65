package probe

import (
	"errors"

	"github.com/backmassage/exrlayers/internal/channel"
)

// Format names the kind of source a [File] was read from.
type Format string

const (
	FormatEXR  Format = "exr"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFile is returned by [Load] for extensions it cannot read.
var ErrUnsupportedFile = errors.New("unsupported file type")

// File is the channel layout of one image file.
type File struct {
	Path   string
	Format Format
	Parts  []channel.Part

	// Views is the file-level view list (EXR "multiView"), default view
	// first. PartViews holds each part's own "view" attribute, "" if unset,
	// indexed like Parts.
	Views     []string
	PartViews []string
}

// ViewHints returns the view names used to classify channels: the
// file-level list when present, else the distinct per-part views in part
// order.
func (f *File) ViewHints() []string {
	if len(f.Views) > 0 {
		return append([]string(nil), f.Views...)
	}
	var hints []string
	seen := make(map[string]bool)
	for _, v := range f.PartViews {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		hints = append(hints, v)
	}
	return hints
}

// Channels returns the total channel count over all parts.
func (f *File) Channels() int {
	n := 0
	for _, p := range f.Parts {
		n += len(p.Channels)
	}
	return n
}
