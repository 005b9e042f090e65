package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/exrlayers/internal/channel"
	"github.com/backmassage/exrlayers/internal/config"
	"github.com/backmassage/exrlayers/internal/display"
	"github.com/backmassage/exrlayers/internal/pattern"
	"github.com/backmassage/exrlayers/internal/probe"
)

// --- Helpers ---

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(f string, a ...interface{})    { l.add("INFO", f, a...) }
func (l *recordingLogger) Success(f string, a ...interface{}) { l.add("SUCCESS", f, a...) }
func (l *recordingLogger) Warn(f string, a ...interface{})    { l.add("WARN", f, a...) }
func (l *recordingLogger) Error(f string, a ...interface{})   { l.add("ERROR", f, a...) }
func (l *recordingLogger) Debug(f string, a ...interface{})   { l.add("DEBUG", f, a...) }

func (l *recordingLogger) has(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.HasPrefix(line, level+" ") && strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig(input string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.InputPath = input
	cfg.ColorMode = config.ColorNever
	return &cfg
}

const stereoManifest = `
views: [right, left]
parts:
  - channels: [R, G, B, A, Z,
               disparityL.x, disparityL.y, disparityR.x, disparityR.y,
               forward.left.u, forward.left.v, forward.right.u, forward.right.v,
               left.R, left.G, left.B, left.A, left.Z,
               whitebarmask.left.mask, whitebarmask.right.mask]
`

// --- Discover tests ---

func TestDiscover_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", "{}")
	writeFile(t, dir, "a.exr", "")
	writeFile(t, dir, "c.YML", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "shots/sh010.yaml", "")
	writeFile(t, dir, ".cache/hidden.exr", "")

	files, err := Discover(dir)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.exr", "b.json", "c.YML", "shots/sh010.yaml"}, rel)
}

func TestDiscover_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "render.txt", "")

	files, err := Discover(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files, "an explicit file is returned even when unsupported")

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// --- Report tests ---

func TestBuildReport_Layers(t *testing.T) {
	f := &probe.File{
		Path:   "beauty.exr",
		Format: probe.FormatEXR,
		Parts: []channel.Part{
			{Name: "rgba", Channels: []string{"A", "B", "G", "R", "Z"}},
			{Name: "aov", Channels: []string{"N.x", "N.y", "N.z", "spec.R", "spec.G", "spec.B"}},
		},
		PartViews: []string{"", ""},
	}
	r, err := BuildReport(f, pattern.Extended, testConfig(""))
	require.NoError(t, err)

	var names []string
	for _, l := range r.Layers {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"rgba/color (ABGR)", "rgba/depth (Z)", "aov/N (xyz)", "aov/spec (RGB)"}, names)

	assert.Equal(t, display.LayerInfo{
		Index:      0,
		Part:       0,
		Name:       "rgba/color (ABGR)",
		Label:      "color",
		ChannelIDs: []string{"A", "B", "G", "R"},
		Display:    []string{"B", "G", "R", "A"},
	}, r.Layers[0])
	assert.Equal(t, []string{"spec.R", "spec.G", "spec.B"}, r.Layers[3].ChannelIDs)
	assert.Equal(t, []display.PartInfo{{Index: 0, Name: "rgba", Channels: 5}, {Index: 1, Name: "aov", Channels: 6}}, r.Parts)
	assert.Empty(t, r.Channels, "table is off by default")
	assert.Empty(t, r.Views)
}

func TestBuildReport_MultiViewTable(t *testing.T) {
	f, err := probe.ParseManifest([]byte(stereoManifest), probe.FormatYAML)
	require.NoError(t, err)

	tests := []struct {
		name     string
		mode     config.SentinelMode
		views    []string
		wantR    display.ChannelInfo
		wantDisp string
	}{
		{
			name:     "bracketed",
			mode:     config.SentinelBracketed,
			wantR:    display.ChannelInfo{Part: 0, Index: 0, Name: "R", Layer: "[color]", View: "right", Channel: "R"},
			wantDisp: "",
		},
		{
			name:     "bracketed-data",
			mode:     config.SentinelBracketedData,
			wantR:    display.ChannelInfo{Part: 0, Index: 0, Name: "R", Layer: "[color]", View: "right", Channel: "R"},
			wantDisp: "[data]",
		},
		{
			name:     "plain with view override",
			mode:     config.SentinelPlain,
			views:    []string{"left", "right"},
			wantR:    display.ChannelInfo{Part: 0, Index: 0, Name: "R", Layer: "color", View: "left", Channel: "R"},
			wantDisp: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("")
			cfg.ShowTable = true
			cfg.Sentinels = tt.mode
			cfg.Views = tt.views

			r, err := BuildReport(f, pattern.Extended, cfg)
			require.NoError(t, err)
			require.Len(t, r.Channels, 20)
			assert.Equal(t, tt.wantR, r.Channels[0])
			assert.Equal(t, "disparityL", r.Channels[5].Layer)
			assert.Equal(t, tt.wantDisp, r.Channels[5].View)
			assert.Equal(t, "forward", r.Channels[9].Layer)
			assert.Equal(t, "left", r.Channels[9].View)
			if tt.views == nil {
				assert.Equal(t, []string{"right", "left"}, r.Views)
			} else {
				assert.Equal(t, tt.views, r.Views)
			}
		})
	}
}

func TestBuildReport_SortChannels(t *testing.T) {
	f := &probe.File{Parts: []channel.Part{{Channels: []string{"left.R", "right.R", "left.G"}}}}
	cfg := testConfig("")

	r, err := BuildReport(f, pattern.Extended, cfg)
	require.NoError(t, err)
	assert.Len(t, r.Layers, 3)

	cfg.SortChannels = true
	r, err = BuildReport(f, pattern.Extended, cfg)
	require.NoError(t, err)
	assert.Len(t, r.Layers, 2)
}

func TestBuildReport_Malformed(t *testing.T) {
	f := &probe.File{Parts: []channel.Part{{Channels: []string{"R", ""}}}}
	_, err := BuildReport(f, pattern.Extended, testConfig(""))
	assert.ErrorIs(t, err, channel.ErrMalformedChannelName)
}

func TestSentinelsFor(t *testing.T) {
	assert.Equal(t, "[data]", SentinelsFor(config.SentinelBracketedData).NoView)
	assert.Equal(t, "color", SentinelsFor(config.SentinelPlain).Color)
	assert.Equal(t, "[color]", SentinelsFor(config.SentinelBracketed).Color)
	assert.Equal(t, "[color]", SentinelsFor("bogus").Color)
}

func TestInspect_PatternFile(t *testing.T) {
	dir := t.TempDir()
	table := writeFile(t, dir, "patterns.yaml", "patterns:\n  - [Y, RY, BY]\n")
	input := writeFile(t, dir, "chroma.json", `{"parts":[{"channels":["BY","RY","Y","Y","RY","BY"]}]}`)

	cfg := testConfig(input)
	cfg.Patterns = table
	r, err := Inspect(input, cfg)
	require.NoError(t, err)
	require.Len(t, r.Layers, 4)
	assert.Equal(t, []string{"Y", "RY", "BY"}, r.Layers[3].ChannelIDs)

	cfg.Patterns = filepath.Join(dir, "missing.yaml")
	_, err = Inspect(input, cfg)
	assert.Error(t, err)
}

// --- Run tests ---

func TestRun(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", stereoManifest)
	writeFile(t, dir, "bad.json", `{"parts":[{"channels":["R",""]}]}`)
	writeFile(t, dir, "readme.md", "ignored")

	var out bytes.Buffer
	log := &recordingLogger{}
	stats, err := Run(context.Background(), testConfig(dir), log, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Inspected)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 10, stats.Layers)

	assert.Contains(t, out.String(), good)
	assert.Contains(t, out.String(), "whitebarmask.right (mask)")
	assert.True(t, log.has("ERROR", "malformed channel name"))
	assert.True(t, log.has("WARN", "1 failed"))
}

func TestRun_JSON(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "shot.json", `{"parts":[{"name":"beauty","channels":["B","G","R"]}]}`)

	cfg := testConfig(input)
	cfg.Output = config.OutputJSON
	var out bytes.Buffer
	stats, err := Run(context.Background(), cfg, &recordingLogger{}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inspected)

	var r display.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, input, r.Path)
	assert.Equal(t, "json", r.Format)
	require.Len(t, r.Layers, 1)
	assert.Equal(t, "beauty/color (BGR)", r.Layers[0].Name)
}

func TestRun_SetupErrors(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))
	_, err := Run(context.Background(), cfg, &recordingLogger{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg = testConfig(t.TempDir())
	cfg.Patterns = "no-such-table"
	_, err = Run(context.Background(), cfg, &recordingLogger{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"parts":[{"channels":["R"]}]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	log := &recordingLogger{}
	stats, err := Run(ctx, testConfig(dir), log, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Zero(t, stats.Inspected)
	assert.True(t, log.has("WARN", "Interrupted"))
}

// --- Watch tests ---

func TestWatch_ReinspectsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	out := &syncBuffer{}
	log := &recordingLogger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, cfg, log, out, func() { close(ready) })
	}()

	select {
	case <-ready:
	case err := <-done:
		t.Fatalf("watch returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}

	path := writeFile(t, dir, "new.json", `{"parts":[{"name":"beauty","channels":["B","G","R"]}]}`)
	writeFile(t, dir, "ignored.txt", "x")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "beauty/color (BGR)")
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, log.has("INFO", "Changed: "+path))
	assert.False(t, log.has("INFO", "ignored.txt"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_MissingInput(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.exr"))
	err := Watch(context.Background(), cfg, &recordingLogger{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_Match(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sh010_beauty.json", `{"parts":[{"channels":["R","G","B"]}]}`)
	writeFile(t, dir, "sh010_crypto.json", `{"parts":[{"channels":["R",""]}]}`)

	cfg := testConfig(dir)
	cfg.Match = "*_beauty.*"
	log := &recordingLogger{}
	stats, err := Run(context.Background(), cfg, log, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Inspected)
	assert.Zero(t, stats.Failed)
	assert.True(t, log.has("DEBUG", "Skipped 1 file(s)"))

	cfg.Match = "[a-"
	_, err = Run(context.Background(), cfg, log, &bytes.Buffer{})
	assert.Error(t, err)
}
