package probe

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/backmassage/exrlayers/internal/channel"
)

// OpenEXR file layout constants.
const (
	exrMagic   = 20000630
	exrVersion = 2

	flagLongNames = 0x400
	flagMultipart = 0x1000

	shortNameMax = 31
	longNameMax  = 255

	// chlist entry after the name: pixel type, pLinear + 3 reserved bytes,
	// x and y sampling.
	chlistEntryTail = 16

	maxAttrSize = 16 << 20
	maxParts    = 1 << 16
)

var (
	// ErrNotEXR is returned when the magic number or version is wrong.
	ErrNotEXR = errors.New("not an OpenEXR file")

	// ErrTruncatedHeader is returned when the header ends early or an
	// attribute is malformed.
	ErrTruncatedHeader = errors.New("truncated or malformed OpenEXR header")
)

// exrHeader is the subset of one part header this package cares about.
type exrHeader struct {
	name      string
	view      string
	channels  []string
	multiView []string
}

// ReadEXRHeader reads the header (or, for multi-part files, the header list)
// at the start of r and stops before the offset tables.
func ReadEXRHeader(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	var pre [2]uint32
	if err := binary.Read(br, binary.LittleEndian, &pre); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEXR, err)
	}
	if pre[0] != exrMagic {
		return nil, ErrNotEXR
	}
	if v := pre[1] & 0xff; v != exrVersion {
		return nil, fmt.Errorf("%w: version %d", ErrNotEXR, v)
	}

	flags := pre[1]
	nameMax := shortNameMax
	if flags&flagLongNames != 0 {
		nameMax = longNameMax
	}
	multipart := flags&flagMultipart != 0

	f := &File{Format: FormatEXR}
	for {
		h, err := readHeader(br, nameMax)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", len(f.Parts), err)
		}
		if h == nil {
			// An empty header ends the multi-part header list.
			if !multipart || len(f.Parts) == 0 {
				return nil, fmt.Errorf("%w: empty header", ErrTruncatedHeader)
			}
			break
		}
		f.Parts = append(f.Parts, channel.Part{Name: h.name, Channels: h.channels})
		f.PartViews = append(f.PartViews, h.view)
		if len(f.Views) == 0 && len(h.multiView) > 0 {
			f.Views = h.multiView
		}
		if !multipart {
			break
		}
		if len(f.Parts) >= maxParts {
			return nil, fmt.Errorf("%w: more than %d parts", ErrTruncatedHeader, maxParts)
		}
	}
	return f, nil
}

// readHeader reads attributes up to the terminating null byte. It returns a
// nil header when the very first attribute name is empty.
func readHeader(br *bufio.Reader, nameMax int) (*exrHeader, error) {
	var h *exrHeader
	for {
		name, err := readCString(br, nameMax)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return h, nil
		}
		if h == nil {
			h = &exrHeader{}
		}

		typ, err := readCString(br, nameMax)
		if err != nil {
			return nil, err
		}
		var size int32
		if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: attribute %q size: %v", ErrTruncatedHeader, name, err)
		}
		if size < 0 || size > maxAttrSize {
			return nil, fmt.Errorf("%w: attribute %q has size %d", ErrTruncatedHeader, name, size)
		}
		value := make([]byte, size)
		if _, err := io.ReadFull(br, value); err != nil {
			return nil, fmt.Errorf("%w: attribute %q value: %v", ErrTruncatedHeader, name, err)
		}

		switch {
		case name == "channels" && typ == "chlist":
			if h.channels, err = parseChlist(value, nameMax); err != nil {
				return nil, err
			}
		case name == "name" && typ == "string":
			h.name = string(value)
		case name == "view" && typ == "string":
			h.view = string(value)
		case name == "multiView" && typ == "stringvector":
			if h.multiView, err = parseStringVector(value); err != nil {
				return nil, err
			}
		}
	}
}

// readCString reads a null-terminated string of at most limit bytes.
func readCString(br *bufio.Reader, limit int) (string, error) {
	b, err := br.ReadBytes(0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}
	b = b[:len(b)-1]
	if len(b) > limit {
		return "", fmt.Errorf("%w: name longer than %d bytes", ErrTruncatedHeader, limit)
	}
	return string(b), nil
}

// parseChlist returns the channel names of a chlist value in file order,
// which the format keeps alphabetical.
func parseChlist(b []byte, nameMax int) ([]string, error) {
	var names []string
	for {
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return nil, fmt.Errorf("%w: unterminated channel list", ErrTruncatedHeader)
		}
		if i == 0 {
			return names, nil
		}
		if i > nameMax {
			return nil, fmt.Errorf("%w: channel name longer than %d bytes", ErrTruncatedHeader, nameMax)
		}
		names = append(names, string(b[:i]))
		b = b[i+1:]
		if len(b) < chlistEntryTail {
			return nil, fmt.Errorf("%w: channel %q entry cut short", ErrTruncatedHeader, names[len(names)-1])
		}
		b = b[chlistEntryTail:]
	}
}

// parseStringVector decodes a sequence of length-prefixed strings.
func parseStringVector(b []byte) ([]string, error) {
	var out []string
	for len(b) > 0 {
		if len(b) < 4 {
			return nil, fmt.Errorf("%w: string vector length cut short", ErrTruncatedHeader)
		}
		n := int(int32(binary.LittleEndian.Uint32(b)))
		b = b[4:]
		if n < 0 || n > len(b) {
			return nil, fmt.Errorf("%w: string vector entry of %d bytes", ErrTruncatedHeader, n)
		}
		out = append(out, string(b[:n]))
		b = b[n:]
	}
	return out, nil
}
