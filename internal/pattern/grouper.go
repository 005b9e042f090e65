package pattern

import "slices"

// Span is a half-open index range [Start, End) over a channel list.
type Span struct {
	Start int
	End   int
}

// Len returns the number of channels in the span.
func (s Span) Len() int { return s.End - s.Start }

// Spans partitions channels into consecutive spans. At each position the
// longest pattern that matches channels exactly and contiguously is
// consumed; otherwise a single channel is. The spans always cover channels
// completely, in order, with no overlap.
func (t Table) Spans(channels []string) []Span {
	if len(channels) == 0 {
		return nil
	}
	sorted := t.ByLength()
	spans := make([]Span, 0, len(channels))
	for i := 0; i < len(channels); {
		n := 1
		for _, p := range sorted {
			if len(p) == 0 || i+len(p) > len(channels) {
				continue
			}
			if slices.Equal(channels[i:i+len(p)], p) {
				n = len(p)
				break
			}
		}
		spans = append(spans, Span{Start: i, End: i + n})
		i += n
	}
	return spans
}

// Split is [Table.Spans] materialized as sub-slices copied out of channels.
func (t Table) Split(channels []string) [][]string {
	spans := t.Spans(channels)
	groups := make([][]string, len(spans))
	for i, s := range spans {
		groups[i] = slices.Clone(channels[s.Start:s.End])
	}
	return groups
}
