package multiview

import (
	"fmt"

	"github.com/backmassage/exrlayers/internal/channel"
)

// Key addresses one channel by part and position within the part.
type Key struct {
	Part  int
	Index int
}

// Entry is one classified channel.
type Entry struct {
	Key
	Name string
	Triple
}

// Table is the flat per-channel lookup built by [BuildTable].
type Table struct {
	entries []Entry
	index   map[Key]int
}

// BuildTable classifies every channel of every part.
func BuildTable(parts []channel.Part, views []string, s Sentinels) (*Table, error) {
	t := &Table{index: make(map[Key]int)}
	for p, part := range parts {
		for i, name := range part.Channels {
			tr, err := s.Classify(name, views)
			if err != nil {
				return nil, fmt.Errorf("part %d channel %d: %w", p, i, err)
			}
			k := Key{Part: p, Index: i}
			t.index[k] = len(t.entries)
			t.entries = append(t.entries, Entry{Key: k, Name: name, Triple: tr})
		}
	}
	return t, nil
}

// Len returns the number of classified channels.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the triple of channel index of part.
func (t *Table) Lookup(part, index int) (Triple, bool) {
	i, ok := t.index[Key{Part: part, Index: index}]
	if !ok {
		return Triple{}, false
	}
	return t.entries[i].Triple, true
}

// Entries returns all classified channels in part, then channel order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// InView returns the entries whose view is view.
func (t *Table) InView(view string) []Entry {
	var out []Entry
	for _, e := range t.entries {
		if e.View == view {
			out = append(out, e)
		}
	}
	return out
}
