package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"movvify/internal/domain/consts"
	"movvify/internal/models"
	"movvify/internal/utils/logging"

	"github.com/google/uuid"
)

const maxCollisions = 10000

// TitleFetcher looks up a human-readable title for a URL.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

// Resolver names output files inside the downloads directory.
//
// Chosen paths are reserved in memory until released, so concurrent requests for
// the same title never share a path. Nothing is created on disk: the external
// tool treats an existing output file as already downloaded.
type Resolver struct {
	Dir    string
	Titles TitleFetcher

	mu       sync.Mutex
	reserved map[string]struct{}
	pending  map[string]*pendingDelete
	now      func() time.Time
}

// NewResolver returns a resolver for dir. titles may be nil.
func NewResolver(dir string, titles TitleFetcher) *Resolver {
	return &Resolver{
		Dir:      dir,
		Titles:   titles,
		reserved: make(map[string]struct{}),
		pending:  make(map[string]*pendingDelete),
		now:      time.Now,
	}
}

// Prepare picks a collision-free output path for url.
//
// Without a title hint the title is fetched; fetch failures fall back to "video".
// Only filesystem errors are returned, and callers should then use FallbackOutput.
func (r *Resolver) Prepare(ctx context.Context, url, titleHint string) (models.OutputFile, error) {
	title := strings.TrimSpace(titleHint)
	if title == "" {
		title = r.fetchTitle(ctx, url)
	}

	name := consts.FilePrefix + SanitizeTitle(title) + consts.OutputExt
	path, err := r.EnsureUniqueFilepath(filepath.Join(r.Dir, name))
	if err != nil {
		return models.OutputFile{}, err
	}
	return models.OutputFile{Path: path, Filename: filepath.Base(path)}, nil
}

// fetchTitle asks the title fetcher, swallowing every failure.
func (r *Resolver) fetchTitle(ctx context.Context, url string) string {
	if r.Titles == nil {
		return consts.DefaultTitle
	}
	title, err := r.Titles.FetchTitle(ctx, url)
	if err != nil {
		logging.W("Could not fetch title for %q, using %q: %v", url, consts.DefaultTitle, err)
		return consts.DefaultTitle
	}
	if title = strings.TrimSpace(title); title == "" {
		return consts.DefaultTitle
	}
	return title
}

// EnsureUniqueFilepath returns base, or base with a " (n)" counter before the
// extension, choosing the first path that neither exists nor is reserved.
// The returned path is reserved until Release.
func (r *Resolver) EnsureUniqueFilepath(base string) (string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	r.mu.Lock()
	defer r.mu.Unlock()

	for n := 0; n < maxCollisions; n++ {
		candidate := base
		if n > 0 {
			candidate = stem + " (" + strconv.Itoa(n) + ")" + ext
		}
		if _, taken := r.reserved[candidate]; taken {
			continue
		}

		_, err := os.Lstat(candidate)
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check output path %q: %w", candidate, err)
		}

		r.reserved[candidate] = struct{}{}
		return candidate, nil
	}
	return "", fmt.Errorf("no free output path for %q after %d attempts", base, maxCollisions)
}

// FallbackOutput returns a timestamp-based output file, used when naming fails.
func (r *Resolver) FallbackOutput() models.OutputFile {
	name := fmt.Sprintf("%s%d_%s%s",
		consts.FilePrefix,
		r.now().UnixMilli(),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		consts.OutputExt)
	path := filepath.Join(r.Dir, name)

	r.mu.Lock()
	r.reserved[path] = struct{}{}
	r.mu.Unlock()

	return models.OutputFile{Path: path, Filename: name}
}

// Release frees a reserved path.
func (r *Resolver) Release(path string) {
	r.mu.Lock()
	delete(r.reserved, path)
	r.mu.Unlock()
}
