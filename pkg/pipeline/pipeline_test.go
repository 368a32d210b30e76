package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/errors"
)

const filter = `# RL filter
P1 1 0.1
R1 3 1; right
L1 2 3; right
C1 3 0; down
P2 2 0.2
`

// memCache is an in-memory Cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"tikz", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"pdf", false},
		{"png", false},
		{"eps", true},
		{"TIKZ", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Netlist: filter}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatTikZ {
		t.Errorf("Formats = %v, want [tikz]", opts.Formats)
	}
	if opts.Source != "-" || opts.Scale != DefaultScale {
		t.Errorf("defaults not applied: %+v", opts)
	}

	for _, bad := range []Options{
		{},
		{Netlist: filter, Formats: []string{"eps"}},
		{Netlist: filter, Wires: "mesh"},
	} {
		if err := bad.ValidateAndSetDefaults(); err == nil {
			t.Errorf("ValidateAndSetDefaults(%+v) should fail", bad)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Netlist: filter, Wires: "star", Scale: 3}
	_ = opts.ValidateAndSetDefaults()
	if got := opts.ArtifactKeyOpts(FormatPNG).Format; got != "png@3" {
		t.Errorf("png key format = %q", got)
	}
	if got := opts.ArtifactKeyOpts(FormatTikZ).Wires; got != "star" {
		t.Errorf("wires = %q", got)
	}
	if opts.RenderOptions().Wires != circuit.WireStar {
		t.Error("RenderOptions should carry the parsed wire policy")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Netlist: filter, Formats: []string{FormatTikZ, FormatJSON, FormatDOT}, DrawNodes: true}
	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.Components != 5 || result.Stats.Nodes != 6 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if !strings.HasSuffix(string(result.Artifacts[FormatTikZ]), "\\end{tikzpicture}\n") {
		t.Errorf("tikz artifact:\n%s", result.Artifacts[FormatTikZ])
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "graph G {") {
		t.Error("missing dot artifact")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want hits", second.CacheInfo)
	}
	if string(second.Artifacts[FormatTikZ]) != string(result.Artifacts[FormatTikZ]) {
		t.Error("cached artifact differs")
	}
}

func TestExecuteCanonicalKey(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	first, err := r.Execute(ctx, Options{Netlist: filter})
	if err != nil {
		t.Fatal(err)
	}
	reformatted := "% same circuit\n" + strings.ReplaceAll(filter, "; ", ";  ")
	second, err := r.Execute(ctx, Options{Netlist: reformatted})
	if err != nil {
		t.Fatal(err)
	}
	if first.NetlistHash != second.NetlistHash || !second.CacheInfo.LayoutHit {
		t.Error("comment and spacing changes should reuse the cached layout")
	}
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	if _, err := r.Execute(ctx, Options{Netlist: filter}); err != nil {
		t.Fatal(err)
	}
	result, err := r.Execute(ctx, Options{Netlist: filter, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestStaleCachedLayout(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{Netlist: filter}
	_ = opts.ValidateAndSetDefaults()
	s, err := r.Load(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	hash := cache.Hash([]byte(s.Netlist()))
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	_ = c.Set(ctx, key, []byte(`{"nodes":["x"],"x":[0],"y":[0]}`), 0)

	l, hit, err := r.LayoutWithCacheInfo(ctx, s, hash, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit || len(l.Nodes) != 6 {
		t.Errorf("mismatched cached layout should be recomputed, hit=%v nodes=%d", hit, len(l.Nodes))
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	_, err := r.Execute(ctx, Options{Netlist: "R1 1 2\nR2 1\n", Source: "bad.net"})
	if !errors.Is(err, errors.ErrCodeInvalidLine) {
		t.Errorf("parse failure = %v, want INVALID_LINE", err)
	}
	if err == nil || !strings.Contains(err.Error(), "bad.net") || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name source and line: %v", err)
	}

	_, err = r.Execute(ctx, Options{Netlist: "R1 1 2; dir=north"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("solver failure = %v, want INVALID_CONFIG", err)
	}
}

func TestExecuteRunLogger(t *testing.T) {
	var runnerLog, runLog bytes.Buffer
	r := NewRunner(nil, nil, log.New(&runnerLog))
	runLogger := log.New(&runLog).With("request_id", "abc")

	_, err := r.Execute(context.Background(), Options{
		Netlist: "R1 1 2; right\nR1 1 3; down\n",
		Logger:  runLogger,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"replaced component", "loaded netlist", "request_id=abc"} {
		if !strings.Contains(runLog.String(), want) {
			t.Errorf("run log missing %q:\n%s", want, runLog.String())
		}
	}
	if runnerLog.Len() != 0 {
		t.Errorf("runner logger should be unused when the run sets one:\n%s", runnerLog.String())
	}

	runLog.Reset()
	if _, err := r.Execute(context.Background(), Options{Netlist: filter}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(runnerLog.String(), "loaded netlist") {
		t.Errorf("runner logger should be the fallback:\n%s", runnerLog.String())
	}
}
