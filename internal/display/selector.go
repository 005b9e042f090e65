package display

import (
	"slices"
	"strings"
)

// MaxDisplayChannels is the number of channels a texture upload can carry.
const MaxDisplayChannels = 4

// SelectDisplayChannels orders channels for display: the first alpha-like
// channel (name ending in "a" or "alpha", any case) moves to the fourth slot,
// or the last slot when there are fewer than four channels, and the result is
// cut to [MaxDisplayChannels]. An empty input gives an empty result.
func SelectDisplayChannels(channels []string) []string {
	out := slices.Clone(channels)
	if len(out) == 0 {
		return []string{}
	}

	if idx := alphaIndex(out); idx >= 0 {
		target := min(MaxDisplayChannels-1, len(out)-1)
		alpha := out[idx]
		out = slices.Delete(out, idx, idx+1)
		out = slices.Insert(out, target, alpha)
	}

	if len(out) > MaxDisplayChannels {
		out = out[:MaxDisplayChannels]
	}
	return out
}

func alphaIndex(channels []string) int {
	for i, c := range channels {
		// "alpha" ends in "a" as well.
		if strings.HasSuffix(strings.ToLower(c), "a") {
			return i
		}
	}
	return -1
}
