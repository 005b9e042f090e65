package pipeline

import (
	"fmt"
	"io"

	"github.com/backmassage/exrlayers/internal/config"
	"github.com/backmassage/exrlayers/internal/display"
	"github.com/backmassage/exrlayers/internal/layer"
	"github.com/backmassage/exrlayers/internal/multiview"
	"github.com/backmassage/exrlayers/internal/pattern"
	"github.com/backmassage/exrlayers/internal/probe"
)

// Inspect loads the file at path and builds its report using the pattern
// table, ordering and view settings of cfg.
func Inspect(path string, cfg *config.Config) (*display.Report, error) {
	table, err := pattern.Resolve(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	return inspect(path, table, cfg)
}

func inspect(path string, table pattern.Table, cfg *config.Config) (*display.Report, error) {
	f, err := probe.Load(path)
	if err != nil {
		return nil, err
	}
	return BuildReport(f, table, cfg)
}

// BuildReport groups the channels of f into layers and describes them. When
// cfg.ShowTable is set the report also carries the multi-view classification
// of every channel.
func BuildReport(f *probe.File, table pattern.Table, cfg *config.Config) (*display.Report, error) {
	opts := []layer.Option{layer.WithPatterns(table)}
	if cfg.SortChannels {
		opts = append(opts, layer.WithSortedChannels())
	}
	engine, err := layer.Group(f.Parts, opts...)
	if err != nil {
		return nil, err
	}

	views := cfg.Views
	if len(views) == 0 {
		views = f.ViewHints()
	}

	r := &display.Report{
		Path:   f.Path,
		Format: string(f.Format),
		Views:  views,
		Parts:  make([]display.PartInfo, 0, len(f.Parts)),
		Layers: make([]display.LayerInfo, 0, engine.Len()),
	}
	for i, p := range f.Parts {
		r.Parts = append(r.Parts, display.PartInfo{Index: i, Name: p.Name, Channels: len(p.Channels)})
	}

	names := engine.Names()
	for i, l := range engine.Layers() {
		r.Layers = append(r.Layers, display.LayerInfo{
			Index:      i,
			Part:       l.Part,
			Name:       names[i],
			Label:      l.Label(),
			ChannelIDs: l.ChannelIDs(),
			Display:    display.SelectDisplayChannels(l.Channels),
		})
	}

	if !cfg.ShowTable {
		return r, nil
	}
	mt, err := multiview.BuildTable(f.Parts, views, SentinelsFor(cfg.Sentinels))
	if err != nil {
		return nil, err
	}
	for _, e := range mt.Entries() {
		r.Channels = append(r.Channels, display.ChannelInfo{
			Part:    e.Part,
			Index:   e.Index,
			Name:    e.Name,
			Layer:   e.Layer,
			View:    e.View,
			Channel: e.Channel,
		})
	}
	return r, nil
}

// SentinelsFor maps the configured label convention to classifier sentinels.
func SentinelsFor(mode config.SentinelMode) multiview.Sentinels {
	switch mode {
	case config.SentinelBracketedData:
		return multiview.BracketedData
	case config.SentinelPlain:
		return multiview.Plain
	default:
		return multiview.Bracketed
	}
}

// Render writes r to w in the configured output format.
func Render(w io.Writer, cfg *config.Config, r *display.Report) error {
	switch cfg.Output {
	case config.OutputJSON:
		return display.WriteJSON(w, r)
	case config.OutputText:
		if err := display.WriteText(w, r); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	default:
		return fmt.Errorf("unknown output format %q", cfg.Output)
	}
}
