package file

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"movvify/internal/utils/logging"
)

// pendingDelete is the one armed deletion for a path.
type pendingDelete struct {
	timer *time.Timer
}

// ScheduleDelete removes path after delay and releases its reservation.
// It replaces any deletion already pending for path. Failures are logged only.
func (r *Resolver) ScheduleDelete(path string, delay time.Duration) *time.Timer {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelPendingLocked(path)
	p := &pendingDelete{}
	p.timer = time.AfterFunc(delay, func() {
		r.fire(path, p)
	})
	r.pending[path] = p
	return p.timer
}

// fire runs a scheduled deletion unless it was replaced or cancelled meanwhile.
func (r *Resolver) fire(path string, p *pendingDelete) {
	r.mu.Lock()
	if r.pending[path] != p {
		r.mu.Unlock()
		return
	}
	delete(r.pending, path)
	r.mu.Unlock()

	r.Remove(path)
}

// cancelPendingLocked stops the deletion pending for path. r.mu must be held.
func (r *Resolver) cancelPendingLocked(path string) {
	if p, ok := r.pending[path]; ok {
		p.timer.Stop()
		delete(r.pending, path)
	}
}

// Remove deletes path if it still exists and releases its reservation.
func (r *Resolver) Remove(path string) {
	defer r.Release(path)
	r.mu.Lock()
	r.cancelPendingLocked(path)
	r.mu.Unlock()

	removeIfExists(path)
}

// RemovePartial deletes path and the intermediate files the tool leaves next to
// it (.part, .ytdl, .temp, per-format fragments), then releases the reservation.
// Files that merely share a name prefix are kept.
func (r *Resolver) RemovePartial(path string) {
	defer r.Release(path)
	r.mu.Lock()
	r.cancelPendingLocked(path)
	r.mu.Unlock()

	removeIfExists(path)

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.E("Failed to list %q for partial cleanup: %v", dir, err)
		return
	}

	isLeftover := leftoverMatcher(base)
	for _, e := range entries {
		if e.IsDir() || !isLeftover(e.Name()) {
			continue
		}
		removeIfExists(filepath.Join(dir, e.Name()))
	}
}

// leftoverMatcher reports which names in a directory are intermediates of base.
func leftoverMatcher(base string) func(string) bool {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	exact := map[string]struct{}{
		base + ".part":       {},
		base + ".ytdl":       {},
		stem + ".temp" + ext: {},
	}
	fragment := regexp.MustCompile(`^` + regexp.QuoteMeta(stem) + `\.f\d+\.[^.]+(\.part|\.ytdl)?$`)

	return func(name string) bool {
		if _, ok := exact[name]; ok {
			return true
		}
		return fragment.MatchString(name)
	}
}

// removeIfExists unlinks path, tolerating it already being gone.
func removeIfExists(path string) {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.E("Failed to remove %q: %v", path, err)
		return
	}
	logging.D(1, "Cleaned up file %q", path)
}
