package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/scrapbook/pkg/observability"
)

var (
	errFlaky = errors.New("connection refused")
	errFatal = errors.New("auth failed")
)

func init() {
	RetryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Columns: 4, MinRows: 2, Policy: "chimney", Width: 800, Height: 600, Gap: 16}

	lk1 := k.LayoutKey("hash123", base)
	if lk1 != k.LayoutKey("hash123", base) {
		t.Error("LayoutKey should be deterministic")
	}
	if !strings.HasPrefix(lk1, "layout:") {
		t.Errorf("LayoutKey should be prefixed: %s", lk1)
	}

	variants := []func(*LayoutKeyOpts){
		func(o *LayoutKeyOpts) { o.Columns = 5 },
		func(o *LayoutKeyOpts) { o.MinRows = 3 },
		func(o *LayoutKeyOpts) { o.Policy = "fixed-row-height" },
		func(o *LayoutKeyOpts) { o.Width = 801 },
		func(o *LayoutKeyOpts) { o.Gap = 8 },
		func(o *LayoutKeyOpts) { o.Align = "start" },
	}
	for i, mutate := range variants {
		o := base
		mutate(&o)
		if k.LayoutKey("hash123", o) == lk1 {
			t.Errorf("variant %d should produce a different key", i)
		}
	}
	if k.LayoutKey("hash456", base) == lk1 {
		t.Error("Different item hashes should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "json"})
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Captions: true})
	if ak1 == ak2 || ak1 == ak3 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")

	key := scoped.LayoutKey("abc", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "staging:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", key)
	}
	if got := KeyType(key); got != PrefixLayout {
		t.Errorf("KeyType(%s) = %s, want layout", key, got)
	}

	art := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(art, "staging:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", art)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	want := "prefix:" + NewDefaultKeyer().LayoutKey("x", LayoutKeyOpts{})
	if key := scoped.LayoutKey("x", LayoutKeyOpts{}); key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestKeyType(t *testing.T) {
	tests := map[string]string{
		"layout:abc":             PrefixLayout,
		"artifact:abc":           PrefixArtifact,
		"tenant:layout:abc":      PrefixLayout,
		"playout:abc":            "other",
		"something-else":         "other",
		"tenant:artifact:layout": PrefixArtifact,
	}
	for key, want := range tests {
		if got := KeyType(key); got != want {
			t.Errorf("KeyType(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "layout:a", []byte(`{"rows":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit || string(data) != `{"rows":[]}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should be a miss")
	}

	// Zero TTL never expires.
	_ = c.Set(ctx, "forever", []byte("v"), 0)
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should be a hit")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	fc := c.(*FileCache)

	path := fc.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	fc := c.(*FileCache)

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if err := fc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
	if _, err := os.Stat(fc.Dir()); err != nil {
		t.Errorf("Clear should keep the directory: %v", err)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	types              []string
}

func (h *countingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits++
	h.types = append(h.types, keyType)
}
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestInstrumented(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := NewInstrumented(fc)

	key := NewDefaultKeyer().LayoutKey("x", LayoutKeyOpts{})
	c.Get(ctx, key)
	_ = c.Set(ctx, key, []byte("v"), 0)
	c.Get(ctx, key)

	if hooks.hits != 1 || hooks.misses != 1 || hooks.sets != 1 {
		t.Errorf("hits=%d misses=%d sets=%d", hooks.hits, hooks.misses, hooks.sets)
	}
	if len(hooks.types) != 1 || hooks.types[0] != PrefixLayout {
		t.Errorf("key types = %v", hooks.types)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Clear should forward to the file cache")
	}

	if err := NewInstrumented(nil).Clear(ctx); err != nil {
		t.Errorf("Clear on a null cache should succeed: %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(errFlaky)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != errFlaky.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errFatal) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errFatal
	})
	if err != errFatal {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errFlaky)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(errFlaky)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestFileCacheLayout(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	fc := c.(*FileCache)

	key := NewDefaultKeyer().LayoutKey("items", LayoutKeyOpts{Columns: 4})
	if err := c.Set(ctx, key, []byte("view"), 0); err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(filepath.Dir(fc.path(key))); got != PrefixLayout {
		t.Errorf("entry stored under %q, want %q", got, PrefixLayout)
	}

	info, err := os.Stat(fc.path(key))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("entry permissions = %o, want 600", perm)
	}
}

func TestFileCacheForeignEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	fc := c.(*FileCache)

	if err := c.Set(ctx, "other-key", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	// Move the entry to where "k" would live.
	if err := os.Rename(fc.path("other-key"), fc.path("k")); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("an entry written for another key must not be returned")
	}
}
