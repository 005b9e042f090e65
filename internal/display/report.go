package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/backmassage/exrlayers/internal/term"
)

// Report is the inspection result of one file, ready for rendering.
type Report struct {
	Path     string        `json:"path"`
	Format   string        `json:"format"`
	Views    []string      `json:"views,omitempty"`
	Parts    []PartInfo    `json:"parts"`
	Layers   []LayerInfo   `json:"layers"`
	Channels []ChannelInfo `json:"channels,omitempty"`
}

// PartInfo summarizes one part or subimage.
type PartInfo struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Channels int    `json:"channels"`
}

// LayerInfo is one selectable layer.
type LayerInfo struct {
	Index      int      `json:"index"`
	Part       int      `json:"part"`
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	ChannelIDs []string `json:"channel_ids"`
	Display    []string `json:"display"`
}

// ChannelInfo is one row of the multi-view lookup table.
type ChannelInfo struct {
	Part    int    `json:"part"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Layer   string `json:"layer"`
	View    string `json:"view"`
	Channel string `json:"channel"`
}

// WriteText renders r as aligned, human-readable text.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s (%s, %s", term.Cyan, r.Path, term.NC, r.Format, plural(len(r.Parts), "part"))
	if len(r.Views) > 0 {
		fmt.Fprintf(&b, ", views: %s", FormatChannels(r.Views))
	}
	b.WriteString(")\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range r.Layers {
		fmt.Fprintf(tw, "  [%d]\t%s\tpart %d\t%s\t-> %s\n",
			l.Index, l.Name, l.Part, FormatChannels(l.ChannelIDs), FormatChannels(l.Display))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Channels) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "  channels:\n"); err != nil {
		return err
	}
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range r.Channels {
		fmt.Fprintf(tw, "    %d:%d\t%s\tlayer=%s\tview=%s\tchannel=%s\n",
			c.Part, c.Index, c.Name, quoteEmpty(c.Layer), quoteEmpty(c.View), c.Channel)
	}
	return tw.Flush()
}

// WriteJSON renders r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func quoteEmpty(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
