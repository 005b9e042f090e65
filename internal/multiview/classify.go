// Package multiview maps channel names straight to (layer, view, channel)
// triples using the file's view names, without building a layer tree.
//
// For "forward.left.u" with views {right, left} the triple is
// (forward, left, u). Channels outside any view get the no-view sentinel;
// channels with no layer of their own get a color, depth or other label.
// Which strings those labels are is chosen by a [Sentinels] value.
package multiview

import (
	"slices"
	"strings"

	"github.com/backmassage/exrlayers/internal/channel"
)

// Triple is the classification of one channel name.
type Triple struct {
	Layer   string `json:"layer"`
	View    string `json:"view"`
	Channel string `json:"channel"`
}

// Sentinels names the labels used for channels lacking an explicit layer or
// view.
type Sentinels struct {
	Color  string // Layerless R, G, B or A.
	Depth  string // Layerless Z.
	Other  string // Any other layerless channel.
	NoView string // Layered channel whose parent segment is not a view.
}

var (
	// Bracketed is the stereo viewer convention and the default.
	Bracketed = Sentinels{Color: "[color]", Depth: "[depth]", Other: "[other]", NoView: ""}

	// BracketedData tags channels outside any view as "[data]".
	BracketedData = Sentinels{Color: "[color]", Depth: "[depth]", Other: "[other]", NoView: "[data]"}

	// Plain uses the labels of the layer list: "color", "depth", otherwise
	// empty.
	Plain = Sentinels{Color: "color", Depth: "depth", Other: "", NoView: ""}
)

// Classify classifies name with the [Bracketed] sentinels.
func Classify(name string, views []string) (Triple, error) {
	return Bracketed.Classify(name, views)
}

// Classify splits name on "." and assigns its segments:
//
//   - one segment: the channel itself, in the default view views[0] (or ""
//     when there are no views), labelled color, depth or other;
//   - otherwise, if the second-to-last segment is a view, it becomes the view
//     and everything before it the layer (a missing layer is labelled as
//     above);
//   - otherwise everything but the last segment is the layer and the view is
//     s.NoView.
//
// Names rejected by [channel.Validate] return its error.
func (s Sentinels) Classify(name string, views []string) (Triple, error) {
	if err := channel.Validate(name); err != nil {
		return Triple{}, err
	}

	segs := channel.Segments(name)
	n := len(segs)
	ch := segs[n-1]

	if n == 1 {
		view := ""
		if len(views) > 0 {
			view = views[0]
		}
		return Triple{Layer: s.label(ch), View: view, Channel: ch}, nil
	}

	if slices.Contains(views, segs[n-2]) {
		layer := strings.Join(segs[:n-2], channel.Delimiter)
		if layer == "" {
			layer = s.label(ch)
		}
		return Triple{Layer: layer, View: segs[n-2], Channel: ch}, nil
	}

	return Triple{
		Layer:   strings.Join(segs[:n-1], channel.Delimiter),
		View:    s.NoView,
		Channel: ch,
	}, nil
}

func (s Sentinels) label(ch string) string {
	switch ch {
	case "R", "G", "B", "A":
		return s.Color
	case "Z":
		return s.Depth
	}
	return s.Other
}
