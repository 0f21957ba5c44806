package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

type stubTitles struct {
	title string
	err   error
	calls int
}

func (s *stubTitles) FetchTitle(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.title, s.err
}

// TestSanitizeTitle ------------------------------------------------------------------------
func TestSanitizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Some/Video: Part <1>?", "SomeVideo Part 1"},
		{"  spaced \t\n out  ", "spaced out"},
		{"", "video"},
		{`<>:"/\|?*`, "video"},
		{"ｆｕｌｌｗｉｄｔｈ", "fullwidth"},
	}
	for _, tt := range tests {
		if got := SanitizeTitle(tt.in); got != tt.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := SanitizeTitle(strings.Repeat("é", 200))
	if n := utf8.RuneCountInString(long); n != 80 {
		t.Fatalf("long title has %d runes, want 80", n)
	}
}

// TestPrepare ------------------------------------------------------------------------------
func TestPrepare(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	titles := &stubTitles{title: "My Clip"}
	r := NewResolver(dir, titles)

	first, err := r.Prepare(context.Background(), "https://youtu.be/a", "")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if first.Filename != "movvify_My Clip.mp4" {
		t.Fatalf("first filename = %q", first.Filename)
	}
	if first.Path != filepath.Join(dir, first.Filename) {
		t.Fatalf("path %q not inside %q", first.Path, dir)
	}

	second, err := r.Prepare(context.Background(), "https://youtu.be/a", "")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if second.Filename != "movvify_My Clip (1).mp4" {
		t.Fatalf("second filename = %q", second.Filename)
	}
	if titles.calls != 2 {
		t.Fatalf("title fetched %d times, want 2", titles.calls)
	}

	if _, err := os.Stat(first.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Prepare must not create the file, stat err = %v", err)
	}
}

func TestPrepare_HintAndFetchFailure(t *testing.T) {
	t.Parallel()

	titles := &stubTitles{err: errors.New("boom")}
	r := NewResolver(t.TempDir(), titles)

	out, err := r.Prepare(context.Background(), "https://youtu.be/a", "Given: Title")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if out.Filename != "movvify_Given Title.mp4" || titles.calls != 0 {
		t.Fatalf("hint not used: %q (calls %d)", out.Filename, titles.calls)
	}

	out, err = r.Prepare(context.Background(), "https://youtu.be/a", "")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if out.Filename != "movvify_video.mp4" {
		t.Fatalf("fetch failure filename = %q", out.Filename)
	}
}

// TestEnsureUniqueFilepath -----------------------------------------------------------------
func TestEnsureUniqueFilepath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	base := filepath.Join(dir, "movvify_a.mp4")

	if err := os.WriteFile(base, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := r.EnsureUniqueFilepath(base)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "movvify_a (1).mp4"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	next, err := r.EnsureUniqueFilepath(base)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "movvify_a (2).mp4"); next != want {
		t.Fatalf("got %q, want %q", next, want)
	}

	r.Release(got)
	again, err := r.EnsureUniqueFilepath(base)
	if err != nil {
		t.Fatal(err)
	}
	if again != got {
		t.Fatalf("released path not reused: %q", again)
	}
}

func TestEnsureUniqueFilepath_StatError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "notadir")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, nil)
	if _, err := r.EnsureUniqueFilepath(filepath.Join(blocker, "movvify_a.mp4")); err == nil {
		t.Fatal("expected error when parent is a file")
	}
}

func TestFallbackOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	r.now = func() time.Time { return time.UnixMilli(1700000000123) }

	a, b := r.FallbackOutput(), r.FallbackOutput()
	if !strings.HasPrefix(a.Filename, "movvify_1700000000123_") || !strings.HasSuffix(a.Filename, ".mp4") {
		t.Fatalf("unexpected fallback name %q", a.Filename)
	}
	if a.Filename == b.Filename {
		t.Fatalf("fallback names collide: %q", a.Filename)
	}
	if filepath.Dir(a.Path) != dir {
		t.Fatalf("fallback path %q outside %q", a.Path, dir)
	}
}

// TestCleanup ------------------------------------------------------------------------------
func TestRemovePartial(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	path, err := r.EnsureUniqueFilepath(filepath.Join(dir, "movvify_clip.mp4"))
	if err != nil {
		t.Fatal(err)
	}

	leftovers := []string{
		"movvify_clip.mp4.part",
		"movvify_clip.mp4.ytdl",
		"movvify_clip.temp.mp4",
		"movvify_clip.f137.mp4",
		"movvify_clip.f140.m4a.part",
	}
	for _, name := range leftovers {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	kept := []string{"movvify_clip (1).mp4", "movvify_clip.bar.mp4", "movvify_clip.v2.mp4.part", "movvify_clipper.mp4"}
	for _, name := range kept {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r.RemovePartial(path)

	for _, name := range leftovers {
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("%s not removed", name)
		}
	}
	for _, name := range kept {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("unrelated file %s removed: %v", name, err)
		}
	}

	again, err := r.EnsureUniqueFilepath(path)
	if err != nil || again != path {
		t.Fatalf("reservation not released: %q, %v", again, err)
	}
}

// waitReleased polls until path is neither reserved nor pending deletion.
func waitReleased(t *testing.T, r *Resolver, path string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		_, reserved := r.reserved[path]
		_, pending := r.pending[path]
		r.mu.Unlock()
		if !reserved && !pending {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%q still reserved after delay", path)
}

func TestScheduleDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	path, err := r.EnsureUniqueFilepath(filepath.Join(dir, "movvify_done.mp4"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r.ScheduleDelete(path, 10*time.Millisecond)
	waitReleased(t, r, path)

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file not deleted after delay: %v", err)
	}
}

func TestScheduleDelete_AlreadyGone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	path, err := r.EnsureUniqueFilepath(filepath.Join(dir, "movvify_missing.mp4"))
	if err != nil {
		t.Fatal(err)
	}

	r.ScheduleDelete(path, time.Millisecond)
	waitReleased(t, r, path)

	again, err := r.EnsureUniqueFilepath(path)
	if err != nil || again != path {
		t.Fatalf("EnsureUniqueFilepath() = %q, %v; want released %q", again, err, path)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Fatalf("unexpected files: %v", entries)
	}
}

func TestScheduleDelete_ReplacesPending(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	base := filepath.Join(dir, "movvify_Song.mp4")
	path, err := r.EnsureUniqueFilepath(base)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Unclaimed sweep, then the file is served and deleted sooner.
	r.ScheduleDelete(path, 300*time.Millisecond)
	r.ScheduleDelete(path, 10*time.Millisecond)
	waitReleased(t, r, path)

	second, err := r.EnsureUniqueFilepath(base)
	if err != nil || second != path {
		t.Fatalf("EnsureUniqueFilepath() = %q, %v; want %q", second, err, path)
	}
	if err := os.WriteFile(second, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)

	data, err := os.ReadFile(second)
	if err != nil || string(data) != "second" {
		t.Fatalf("second file deleted by an earlier sweep: %q, %v", data, err)
	}
	r.mu.Lock()
	_, reserved := r.reserved[second]
	r.mu.Unlock()
	if !reserved {
		t.Fatal("second reservation dropped by an earlier sweep")
	}
}

func TestRemove_CancelsPending(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	base := filepath.Join(dir, "movvify_clip.mp4")
	path, err := r.EnsureUniqueFilepath(base)
	if err != nil {
		t.Fatal(err)
	}

	r.ScheduleDelete(path, 200*time.Millisecond)
	r.Remove(path)

	again, err := r.EnsureUniqueFilepath(base)
	if err != nil || again != path {
		t.Fatalf("EnsureUniqueFilepath() = %q, %v", again, err)
	}
	if err := os.WriteFile(again, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(400 * time.Millisecond)
	if _, err := os.Stat(again); err != nil {
		t.Fatalf("cancelled deletion still ran: %v", err)
	}
}

// TestResolveServed ------------------------------------------------------------------------
func TestResolveServed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	r := NewResolver(dir, nil)
	name := "movvify_ok.mp4"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := r.ResolveServed(name)
	if err != nil {
		t.Fatalf("ResolveServed: %v", err)
	}
	if filepath.Base(path) != name {
		t.Fatalf("resolved %q", path)
	}

	for _, bad := range []string{"", "..", "../movvify_ok.mp4", "sub/movvify_ok.mp4", `..\movvify_ok.mp4`, "movvify_missing.mp4", "other.mp4"} {
		if _, err := r.ResolveServed(bad); !errors.Is(err, ErrNotFound) {
			t.Errorf("ResolveServed(%q) err = %v, want ErrNotFound", bad, err)
		}
	}
}
