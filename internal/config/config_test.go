package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)
	return dir
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, path, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("path = %q, want none", path)
	}
	if !cfg.Draw.Nodes || !cfg.Cache.Enabled || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.TTL.Duration() != 24*time.Hour {
		t.Errorf("TTL = %s", cfg.Cache.TTL.Duration())
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	write(t, path, `
[draw]
labels = false
args = "scale=0.8"
formats = ["tikz", "svg"]
wires = "star"

[cache]
redis_addr = "localhost:6379"
ttl = "1h30m"
`)

	cfg, got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if got != path {
		t.Errorf("path = %q", got)
	}
	if cfg.Draw.Labels || !cfg.Draw.Nodes {
		t.Error("labels should be overridden, nodes kept at default")
	}
	if cfg.Draw.Args != "scale=0.8" || !slices.Equal(cfg.Draw.Formats, []string{"tikz", "svg"}) || cfg.Draw.Wires != "star" {
		t.Errorf("draw = %+v", cfg.Draw)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.TTL.Duration() != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	tests := map[string]string{
		"syntax":      "[draw\nnodes = true",
		"unknown key": "[draw]\ncolour = \"red\"",
		"bad ttl":     "[cache]\nttl = \"soon\"",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".toml")
			write(t, path, content)
			if _, _, err := LoadFromPath(path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, _, err := LoadFromPath(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing explicit file should fail")
	}
}

func TestFindConfigPathPriority(t *testing.T) {
	dir := isolate(t)

	home := filepath.Join(dir, "home", ".config", ConfigDirName, "config.toml")
	write(t, home, "")
	if got := FindConfigPath(); got != home {
		t.Errorf("home: got %q", got)
	}

	xdg := filepath.Join(dir, "xdg", ConfigDirName, "config.toml")
	write(t, xdg, "")
	if got := FindConfigPath(); got != xdg {
		t.Errorf("xdg: got %q", got)
	}

	write(t, filepath.Join(dir, ConfigFileName), "")
	if got := FindConfigPath(); filepath.Base(got) != ConfigFileName {
		t.Errorf("cwd: got %q", got)
	}

	explicit := filepath.Join(dir, "explicit.toml")
	write(t, explicit, "")
	t.Setenv(EnvConfigPath, explicit)
	if got := FindConfigPath(); got != explicit {
		t.Errorf("env: got %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := Default()
	cfg.Draw.Args = "american"
	cfg.Cache.TTL = Duration(2 * time.Hour)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if back.Draw.Args != "american" || back.Cache.TTL.Duration() != 2*time.Hour {
		t.Errorf("round trip = %+v", back)
	}
}
