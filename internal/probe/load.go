package probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// maxManifestSize bounds the manifest files read by Load.
const maxManifestSize = 4 << 20

// sniffSize is enough leading bytes for filetype to recognize common formats.
const sniffSize = 262

// formatForExt maps lower-case file extensions to the source format.
var formatForExt = map[string]Format{
	".exr":  FormatEXR,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// FormatOf returns the format Load would use for path.
func FormatOf(path string) (Format, bool) {
	f, ok := formatForExt[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Supported reports whether Load can read path, judged by its extension.
func Supported(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// Load reads the channel layout of the file at path.
func Load(path string) (*File, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	var (
		f   *File
		err error
	)
	if format == FormatEXR {
		f, err = loadEXR(path)
	} else {
		f, err = loadManifest(path, format)
	}
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// loadEXR reads the EXR header of path. When the magic number is wrong, the
// error names the format the file appears to be in instead.
func loadEXR(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(fh, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	f, err := ReadEXRHeader(io.MultiReader(bytes.NewReader(head), fh))
	if errors.Is(err, ErrNotEXR) {
		if kind := Sniff(head); kind != "" {
			return nil, fmt.Errorf("%w (looks like %s)", err, kind)
		}
	}
	return f, err
}

// Sniff returns the extension of the file type recognized from its leading
// bytes, or "" when unknown.
func Sniff(head []byte) string {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.Extension
}

func loadManifest(path string, format Format) (*File, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > maxManifestSize {
		return nil, fmt.Errorf("%w: file too large: %d bytes (max %d)", ErrInvalidManifest, fi.Size(), maxManifestSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data, format)
}
