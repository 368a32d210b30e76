package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "layout:a", []byte(`{"nodes":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit || string(data) != `{"nodes":[]}` {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(filepath.Join(t.TempDir(), "schematic"))
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if n, err := c.Len(); err != nil || n != 2 {
		t.Fatalf("Len = %d, %v; want 2", n, err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("cache dir should exist after Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
	if n, _ := c.Len(); n != 0 {
		t.Errorf("Len after Clear = %d", n)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil || dir != filepath.Join("/tmp/xdg", "schematic") {
		t.Errorf("DefaultDir = %q, %v", dir, err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("R1 1 2"))
	if h1 != Hash([]byte("R1 1 2")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("R1 1 3")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestEntryKeyKeepsNetlistHash(t *testing.T) {
	h := Hash([]byte("R1 1 2; right"))
	key := NewDefaultKeyer().LayoutKey(h, LayoutKeyOpts{Version: 1})
	if !strings.HasPrefix(key, "layout:"+h+":") {
		t.Errorf("LayoutKey = %s, want layout:<netlist hash>:<digest>", key)
	}
	if len(key) != len("layout:")+len(h)+1+optsDigestLen {
		t.Errorf("unexpected key length %d: %s", len(key), key)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("hash123", LayoutKeyOpts{Version: 1})
	lk2 := k.LayoutKey("hash123", LayoutKeyOpts{Version: 2})
	if lk1 == lk2 {
		t.Error("Different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey = %s, want layout: prefix", lk1)
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "tikz"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "tikz", DrawNodes: true})
	ak3 := k.ArtifactKey("hash456", ArtifactKeyOpts{Format: "tikz"})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("artifact keys should depend on options and netlist hash")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "project:filters:")

	key := scoped.LayoutKey("h", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "project:filters:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", key)
	}
	if want := "project:filters:" + NewDefaultKeyer().ArtifactKey("h", ArtifactKeyOpts{}); scoped.ArtifactKey("h", ArtifactKeyOpts{}) != want {
		t.Error("ScopedKeyer ArtifactKey should only add the prefix")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "p:")
	if key := scoped.LayoutKey("h", LayoutKeyOpts{}); !strings.HasPrefix(key, "p:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"dropped connection", io.EOF, true},
		{"loading dataset", errors.New("LOADING Redis is loading the dataset in memory"), true},
		{"wrong password", errors.New("WRONGPASS invalid username-password pair"), false},
		{"no auth", errors.New("NOAUTH Authentication required."), false},
		{"cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("ping: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		if got := transient(tt.err); got != tt.want {
			t.Errorf("transient(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPing(t *testing.T) {
	defer func(d time.Duration) { pingBackoff = d }(pingBackoff)
	pingBackoff = time.Millisecond
	ctx := context.Background()
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name        string
		failures    int
		err         error
		wantCalls   int
		unavailable bool
		wantErr     bool
	}{
		{"up", 0, nil, 1, false, false},
		{"recovers", 2, refused, 3, false, false},
		{"down", 5, refused, pingAttempts, true, true},
		{"bad password", 5, errors.New("WRONGPASS invalid"), 1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := ping(ctx, "localhost:6379", func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("ping error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if errors.Is(err, ErrUnavailable) != tt.unavailable {
				t.Errorf("errors.Is(%v, ErrUnavailable) = %v", err, !tt.unavailable)
			}
			if err != nil && !strings.Contains(err.Error(), "localhost:6379") {
				t.Errorf("error should name the address: %v", err)
			}
		})
	}
}

func TestPingContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ping(ctx, "localhost:6379", func(context.Context) error {
		return io.EOF
	})
	if err != context.Canceled {
		t.Errorf("ping should return the context error: %v", err)
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	defer func(d time.Duration) { pingBackoff = d }(pingBackoff)
	pingBackoff = time.Millisecond

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = NewRedisCache(ctx, RedisConfig{Addr: addr})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewRedisCache(%s) = %v, want ErrUnavailable", addr, err)
	}
}

// TestRedisCache runs against a live server named by SCHEMATIC_TEST_REDIS.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SCHEMATIC_TEST_REDIS")
	if addr == "" {
		t.Skip("SCHEMATIC_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "schematic-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "layout:" + Hash([]byte(t.Name()))
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}
