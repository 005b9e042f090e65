package layer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/exrlayers/internal/channel"
	"github.com/backmassage/exrlayers/internal/pattern"
)

var stereoChannels = []string{
	"R", "G", "B", "A", "Z",
	"disparityL.x", "disparityL.y", "disparityR.x", "disparityR.y",
	"forward.left.u", "forward.left.v", "forward.right.u", "forward.right.v",
	"left.R", "left.G", "left.B", "left.A", "left.Z",
	"whitebarmask.left.mask", "whitebarmask.right.mask",
}

func TestSplitDelimited(t *testing.T) {
	tests := []struct {
		name string
		in   Layer
		want []Layer
	}{
		{
			name: "contiguous prefixes",
			in:   Layer{Part: 1, Channels: []string{"left.R", "left.G", "right.R"}},
			want: []Layer{
				{Name: "left", Part: 1, Channels: []string{"R", "G"}},
				{Name: "right", Part: 1, Channels: []string{"R"}},
			},
		},
		{
			name: "top level and nested",
			in:   Layer{Channels: []string{"A", "B", "forward.left.u", "forward.left.v"}},
			want: []Layer{
				{Name: "", Channels: []string{"A", "B"}},
				{Name: "forward.left", Channels: []string{"u", "v"}},
			},
		},
		{
			name: "reappearing prefix is not merged",
			in:   Layer{Channels: []string{"a.x", "b.x", "a.y"}},
			want: []Layer{
				{Name: "a", Channels: []string{"x"}},
				{Name: "b", Channels: []string{"x"}},
				{Name: "a", Channels: []string{"y"}},
			},
		},
		{
			name: "parent name composed",
			in:   Layer{Name: "beauty", Channels: []string{"R", "left.R"}},
			want: []Layer{
				{Name: "beauty", Channels: []string{"R"}},
				{Name: "beauty.left", Channels: []string{"R"}},
			},
		},
		{
			name: "empty",
			in:   Layer{},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitDelimited(tt.in)); diff != "" {
				t.Errorf("SplitDelimited mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIngest(t *testing.T) {
	parts := []channel.Part{
		{Name: "beauty", Channels: []string{"R", "G", "B"}},
		{Name: "empty"},
		{Channels: []string{"Z"}},
	}
	layers, err := Ingest(parts)
	require.NoError(t, err)
	assert.Equal(t, []Layer{
		{Part: 0, Channels: []string{"R", "G", "B"}},
		{Part: 2, Channels: []string{"Z"}},
	}, layers)

	parts[0].Channels[0] = "X"
	assert.Equal(t, "R", layers[0].Channels[0], "ingest must copy channel lists")

	_, err = Ingest([]channel.Part{{Channels: []string{"R", ""}}})
	assert.ErrorIs(t, err, channel.ErrMalformedChannelName)
}

func TestGroup_StereoFixture(t *testing.T) {
	e, err := Group([]channel.Part{{Channels: stereoChannels}})
	require.NoError(t, err)

	labels := map[string]bool{}
	byLabel := map[string][]string{}
	for _, l := range e.Layers() {
		labels[l.Label()] = true
		if _, seen := byLabel[l.Label()]; !seen {
			byLabel[l.Label()] = l.Channels
		}
	}

	want := map[string]bool{
		"color": true, "depth": true, "disparityL": true, "disparityR": true,
		"forward.left": true, "forward.right": true, "left": true,
		"whitebarmask.left": true, "whitebarmask.right": true,
	}
	assert.Equal(t, want, labels)
	assert.Equal(t, []string{"R", "G", "B", "A"}, byLabel["color"])
	assert.Equal(t, []string{"x", "y"}, byLabel["disparityL"])

	assert.Equal(t, []string{
		"color (RGBA)", "depth (Z)",
		"disparityL (xy)", "disparityR (xy)",
		"forward.left (uv)", "forward.right (uv)",
		"left (RGBA)", "left (Z)",
		"whitebarmask.left (mask)", "whitebarmask.right (mask)",
	}, e.Names())
}

func TestGroup_RoundTripAndPartition(t *testing.T) {
	parts := []channel.Part{
		{Name: "rgba", Channels: []string{"A", "B", "G", "R", "Z"}},
		{Name: "aovs", Channels: stereoChannels},
		{Name: "misc", Channels: []string{"N.x", "N.y", "N.z", "P.x", "uv.u", "uv.v", "uv.w", "weird.B", "weird.R"}},
	}
	for _, table := range []pattern.Table{pattern.Standard, pattern.Extended, nil} {
		e, err := Group(parts, WithPatterns(table))
		require.NoError(t, err)

		var rebuilt [3][]string
		for i := 0; i < e.Len(); i++ {
			ids, err := e.ChannelIDs(i)
			require.NoError(t, err)
			part, err := e.PartOf(i)
			require.NoError(t, err)
			rebuilt[part] = append(rebuilt[part], ids...)
		}
		for i, p := range parts {
			assert.Equal(t, p.Channels, rebuilt[i], "part %d must be reproduced exactly", i)
		}
	}
}

func TestGroup_Order(t *testing.T) {
	parts := []channel.Part{
		{Name: "left", Channels: []string{"A", "B", "G", "R"}},
		{Name: "right", Channels: []string{"A", "B", "G", "R", "mask.x"}},
	}
	e, err := Group(parts, WithPatterns(pattern.Standard))
	require.NoError(t, err)
	require.Equal(t, 3, e.Len())
	assert.Equal(t, 2, e.Parts())

	assert.Equal(t, []string{"left/color (ABGR)", "right/color (ABGR)", "right/mask (x)"}, e.Names())
	for i, wantPart := range []int{0, 1, 1} {
		got, err := e.PartOf(i)
		require.NoError(t, err)
		assert.Equal(t, wantPart, got)
	}
	assert.Equal(t, "right", e.PartName(1))
	assert.Equal(t, "", e.PartName(5))
}

func TestGroup_SortedChannels(t *testing.T) {
	parts := []channel.Part{{Channels: []string{"left.R", "right.R", "left.G"}}}

	trusting, err := Group(parts)
	require.NoError(t, err)
	assert.Equal(t, 3, trusting.Len(), "backend order is trusted by default")

	sorted, err := Group(parts, WithSortedChannels())
	require.NoError(t, err)
	assert.Equal(t, []string{"left (GR)", "right (R)"}, sorted.Names())
	assert.Equal(t, []string{"left.R", "right.R", "left.G"}, parts[0].Channels, "caller's parts must not be sorted in place")
}

func TestEngine_IndexOutOfRange(t *testing.T) {
	e, err := Group([]channel.Part{{Channels: []string{"R", "G", "B"}}})
	require.NoError(t, err)
	require.Equal(t, 1, e.Len())

	for _, idx := range []int{1, 7, -1} {
		_, err := e.Select(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = e.ChannelIDs(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = e.PartOf(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}

	l, err := e.Select(0)
	require.NoError(t, err)
	assert.Equal(t, Layer{Name: "", Part: 0, Channels: []string{"R", "G", "B"}}, l)
	l.Channels[0] = "X"
	again, _ := e.Select(0)
	assert.Equal(t, "R", again.Channels[0], "Select must return a copy")
}

func TestGroup_Empty(t *testing.T) {
	e, err := Group(nil)
	require.NoError(t, err)
	assert.Zero(t, e.Len())
	assert.Empty(t, e.Names())

	e, err = Group([]channel.Part{{Name: "nothing"}})
	require.NoError(t, err)
	assert.Zero(t, e.Len())
}

func TestGroup_Malformed(t *testing.T) {
	_, err := Group([]channel.Part{{Channels: []string{"R", "left..G"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, channel.ErrMalformedChannelName)
	assert.True(t, strings.Contains(err.Error(), "part 0 channel 1"))
}

func TestLayer_Label(t *testing.T) {
	tests := []struct {
		name string
		l    Layer
		want string
	}{
		{"named keeps name", Layer{Name: "left", Channels: []string{"R", "G", "B"}}, "left"},
		{"rgba", Layer{Channels: []string{"R", "G", "B", "A"}}, LabelColor},
		{"abgr", Layer{Channels: []string{"A", "B", "G", "R"}}, LabelColor},
		{"lone alpha", Layer{Channels: []string{"A"}}, LabelColor},
		{"depth", Layer{Channels: []string{"Z"}}, LabelDepth},
		{"other", Layer{Channels: []string{"mask"}}, ""},
		{"mixed", Layer{Channels: []string{"R", "Z"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.l.Label())
		})
	}
}
