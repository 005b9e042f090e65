package layer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/backmassage/exrlayers/internal/channel"
	"github.com/backmassage/exrlayers/internal/display"
	"github.com/backmassage/exrlayers/internal/pattern"
)

// ErrIndexOutOfRange is returned by [Engine] accessors for an index that does
// not name a layer, typically one kept across a reload.
var ErrIndexOutOfRange = errors.New("layer index out of range")

// Option adjusts how [Group] builds its layers.
type Option func(*options)

type options struct {
	table      pattern.Table
	sortByName bool
}

// WithPatterns replaces the default [pattern.Extended] table.
func WithPatterns(t pattern.Table) Option {
	return func(o *options) { o.table = t }
}

// WithSortedChannels sorts each part's channels by name before grouping,
// for backends that do not enumerate same-prefix channels contiguously.
func WithSortedChannels() Option {
	return func(o *options) { o.sortByName = true }
}

// Engine holds the grouped layers of one loaded file.
type Engine struct {
	parts  []channel.Part
	layers []Layer
}

// Group runs ingest, delimiter split and pattern split over parts and
// returns the resulting engine. Layers are ordered by part, then by
// delimiter group, then by pattern span.
func Group(parts []channel.Part, opts ...Option) (*Engine, error) {
	o := options{table: pattern.Extended}
	for _, opt := range opts {
		opt(&o)
	}

	src := parts
	if o.sortByName {
		src = make([]channel.Part, len(parts))
		for i, p := range parts {
			src[i] = channel.Part{Name: p.Name, Channels: slices.Sorted(slices.Values(p.Channels))}
		}
	}

	raw, err := Ingest(src)
	if err != nil {
		return nil, err
	}

	var layers []Layer
	for _, r := range raw {
		for _, d := range SplitDelimited(r) {
			for _, s := range o.table.Spans(d.Channels) {
				layers = append(layers, Layer{
					Name:     d.Name,
					Part:     d.Part,
					Channels: slices.Clone(d.Channels[s.Start:s.End]),
				})
			}
		}
	}

	e := &Engine{parts: make([]channel.Part, len(src)), layers: layers}
	for i, p := range src {
		e.parts[i] = channel.Part{Name: p.Name, Channels: slices.Clone(p.Channels)}
	}
	return e, nil
}

// Len returns the number of layers.
func (e *Engine) Len() int { return len(e.layers) }

// Parts returns the number of parts the engine was built from.
func (e *Engine) Parts() int { return len(e.parts) }

// PartName returns the backend name of part idx, or "" if it has none.
func (e *Engine) PartName(idx int) string {
	if idx < 0 || idx >= len(e.parts) || !e.parts[idx].HasName() {
		return ""
	}
	return e.parts[idx].Name
}

// Names returns the display name of every layer, in layer order.
func (e *Engine) Names() []string {
	names := make([]string, len(e.layers))
	for i, l := range e.layers {
		names[i] = display.DisplayName(e.PartName(l.Part), l.Label(), l.Channels)
	}
	return names
}

// Layers returns a copy of the grouped layers.
func (e *Engine) Layers() []Layer {
	out := make([]Layer, len(e.layers))
	for i, l := range e.layers {
		out[i] = Layer{Name: l.Name, Part: l.Part, Channels: slices.Clone(l.Channels)}
	}
	return out
}

// Select returns a copy of layer idx.
func (e *Engine) Select(idx int) (Layer, error) {
	if err := e.check(idx); err != nil {
		return Layer{}, err
	}
	l := e.layers[idx]
	return Layer{Name: l.Name, Part: l.Part, Channels: slices.Clone(l.Channels)}, nil
}

// ChannelIDs returns the full channel names of layer idx.
func (e *Engine) ChannelIDs(idx int) ([]string, error) {
	if err := e.check(idx); err != nil {
		return nil, err
	}
	return e.layers[idx].ChannelIDs(), nil
}

// PartOf returns the part index that owns layer idx.
func (e *Engine) PartOf(idx int) (int, error) {
	if err := e.check(idx); err != nil {
		return 0, err
	}
	return e.layers[idx].Part, nil
}

func (e *Engine) check(idx int) error {
	if idx < 0 || idx >= len(e.layers) {
		return fmt.Errorf("%w: %d (have %d layers)", ErrIndexOutOfRange, idx, len(e.layers))
	}
	return nil
}
