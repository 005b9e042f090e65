package display

import (
	"strings"
)

// DisplayName formats the selector label of a layer. A layer named like its
// part shows once, a named layer inside a named part shows as
// "part/layer", otherwise whichever of the two is set is used. The layer's
// channels follow in parentheses with no separator, e.g. "color (RGBA)".
func DisplayName(partName, layerName string, channels []string) string {
	var name string
	switch {
	case partName == layerName:
		name = layerName
	case partName != "" && layerName != "":
		name = partName + "/" + layerName
	default:
		name = partName + layerName
	}
	return name + " (" + strings.Join(channels, "") + ")"
}

// FormatChannels lists channels comma-separated for log and report output,
// where the unseparated form of [DisplayName] would be ambiguous.
func FormatChannels(channels []string) string {
	return strings.Join(channels, ",")
}
