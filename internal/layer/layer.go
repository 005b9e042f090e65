// Package layer turns the flat channel lists of an image file into an
// ordered list of display layers.
//
// Grouping runs in three stages per part:
//
//  1. ingest: one raw layer holding every channel of the part, unnamed;
//  2. delimiter split: contiguous runs of channels sharing the prefix before
//     their last "." become one layer each, named by that prefix;
//  3. pattern split: each of those is cut into spans by a [pattern.Table],
//     so "left.R left.G left.B left.A left.Z" yields left(RGBA) and left(Z).
//
// The result is held by an [Engine], which never changes after [Group]
// returns. Opening a new file means grouping again and dropping the old
// engine; indices from one engine are meaningless for another.
package layer

import (
	"slices"

	"github.com/backmassage/exrlayers/internal/channel"
)

// Semantic labels given to unnamed top-level layers by [Layer.Label].
const (
	LabelColor = "color"
	LabelDepth = "depth"
)

// Layer is a named, ordered group of channel suffixes from one part. Name is
// the hierarchical prefix shared by every channel ("" at the top level);
// Channels holds suffixes, not full names.
type Layer struct {
	Name     string
	Part     int
	Channels []string
}

// ChannelIDs rebuilds the full channel names of the layer.
func (l Layer) ChannelIDs() []string {
	ids := make([]string, len(l.Channels))
	for i, c := range l.Channels {
		ids[i] = channel.Join(l.Name, c)
	}
	return ids
}

// Label is the layer name shown to users. Named layers use their name. An
// unnamed layer made only of R, G, B and A is "color", a lone Z is "depth",
// anything else stays unnamed.
func (l Layer) Label() string {
	if l.Name != "" {
		return l.Name
	}
	switch {
	case isColor(l.Channels):
		return LabelColor
	case len(l.Channels) == 1 && l.Channels[0] == "Z":
		return LabelDepth
	}
	return ""
}

var colorTokens = map[string]bool{"R": true, "G": true, "B": true, "A": true}

func isColor(channels []string) bool {
	if len(channels) == 0 {
		return false
	}
	for _, c := range channels {
		if !colorTokens[c] {
			return false
		}
	}
	return true
}

// Ingest builds the raw, unnamed layer of every part. Channel order is kept
// exactly as the backend reported it. Empty or unsplittable channel names
// fail with [channel.ErrMalformedChannelName].
func Ingest(parts []channel.Part) ([]Layer, error) {
	layers := make([]Layer, 0, len(parts))
	for i, p := range parts {
		if err := channel.ValidatePart(i, p); err != nil {
			return nil, err
		}
		if len(p.Channels) == 0 {
			continue
		}
		layers = append(layers, Layer{Part: i, Channels: slices.Clone(p.Channels)})
	}
	return layers, nil
}

// SplitDelimited groups l's channels into contiguous runs sharing the prefix
// before their last ".". Input order is trusted: a prefix that reappears
// after a different one opens a new layer rather than merging back.
func SplitDelimited(l Layer) []Layer {
	var (
		out     []Layer
		current *Layer
		key     string
	)
	for _, name := range l.Channels {
		prefix, leaf := channel.SplitLast(name)
		if current == nil || prefix != key {
			out = append(out, Layer{Name: channel.Join(l.Name, prefix), Part: l.Part})
			current = &out[len(out)-1]
			key = prefix
		}
		current.Channels = append(current.Channels, leaf)
	}
	return out
}
