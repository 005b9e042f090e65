// Package channel holds the raw channel identifiers reported by an image
// backend and the name composition rules shared by the layer grouping and
// multi-view classification code.
//
// A channel name is a "."-delimited path such as "forward.left.u". The part
// before the last "." is the owning layer path, the part after it is the leaf
// suffix. [Join] and [SplitLast] are exact inverses for every name accepted
// by [Validate].
package channel

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the hierarchical segments of a channel name.
const Delimiter = "."

// ErrMalformedChannelName is returned for channel names that are empty or
// cannot be split into non-empty "."-delimited segments.
var ErrMalformedChannelName = errors.New("malformed channel name")

// ID identifies one channel: its raw name and the part (EXR part or OIIO
// subimage) that owns it.
type ID struct {
	Name string
	Part int
}

func (id ID) String() string {
	return fmt.Sprintf("%d:%s", id.Part, id.Name)
}

// Part is one unit of channel partitioning as enumerated by a backend.
// Channels are in backend order, which for EXR and OIIO is alphabetical.
type Part struct {
	Name     string
	Channels []string
}

// HasName reports whether the backend gave the part a name.
func (p Part) HasName() bool { return p.Name != "" }

// IDs returns the part's channels as identifiers owned by part index idx.
func (p Part) IDs(idx int) []ID {
	ids := make([]ID, len(p.Channels))
	for i, name := range p.Channels {
		ids[i] = ID{Name: name, Part: idx}
	}
	return ids
}

// Validate checks a single channel name. The empty string and names with an
// empty segment (".R", "R.", "a..b") are rejected.
func Validate(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrMalformedChannelName)
	}
	if strings.HasPrefix(name, Delimiter) || strings.HasSuffix(name, Delimiter) ||
		strings.Contains(name, Delimiter+Delimiter) {
		return fmt.Errorf("%w: %q has an empty segment", ErrMalformedChannelName, name)
	}
	return nil
}

// ValidatePart validates every channel of part idx and reports the first
// offending channel with its position.
func ValidatePart(idx int, p Part) error {
	for i, name := range p.Channels {
		if err := Validate(name); err != nil {
			return fmt.Errorf("part %d channel %d: %w", idx, i, err)
		}
	}
	return nil
}

// SplitLast splits name at its last delimiter. prefix is empty when name has
// no delimiter.
func SplitLast(name string) (prefix, leaf string) {
	i := strings.LastIndex(name, Delimiter)
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// Segments splits name on every delimiter.
func Segments(name string) []string {
	return strings.Split(name, Delimiter)
}

// Join composes a parent and child name: empty operands are dropped and the
// rest joined with the delimiter. Join("", "left") is "left",
// Join("forward", "left") is "forward.left" and Join("", "") is "".
func Join(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + Delimiter + child
	}
}
