package downloads

import (
	"context"
	"encoding/json"
	"fmt"

	"movvify/internal/command/builder"
	"movvify/internal/domain/consts"
	"movvify/internal/models"
	"movvify/internal/utils/logging"
)

// flatPlaylist is the subset of the tool's flat-listing JSON that is read.
type flatPlaylist struct {
	Title   string       `json:"title"`
	Entries []*flatEntry `json:"entries"`
}

type flatEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Playlist lists the items of a playlist without downloading any of them.
func (s *Service) Playlist(ctx context.Context, url string) (models.PlaylistInfo, error) {
	args := builder.PlaylistArgs(s.Cookies.Resolve(), url)

	logging.I("Fetching playlist info for %q", url)
	res, err := s.Runner.Run(ctx, s.Options.PlaylistTimeout, args...)
	if err != nil {
		return models.PlaylistInfo{}, classify(url, err)
	}

	info, err := parsePlaylist([]byte(res.Stdout))
	if err != nil {
		logging.E("Could not parse playlist JSON for %q: %v\nPayload: %s", url, err, res.Stdout)
		return models.PlaylistInfo{}, err
	}

	logging.S("Found %d items in playlist %q", len(info.Items), info.Title)
	return info, nil
}

// parsePlaylist maps flat-listing JSON onto PlaylistInfo. Entries without an
// ID cannot be addressed and are skipped.
func parsePlaylist(data []byte) (models.PlaylistInfo, error) {
	var raw flatPlaylist
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.PlaylistInfo{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	info := models.PlaylistInfo{
		Title: raw.Title,
		Items: make([]models.PlaylistItem, 0, len(raw.Entries)),
	}
	if info.Title == "" {
		info.Title = consts.DefaultPlaylist
	}

	for _, e := range raw.Entries {
		if e == nil || e.ID == "" {
			logging.D(2, "Skipping playlist entry without an ID")
			continue
		}
		title := e.Title
		if title == "" {
			title = consts.UntitledVideo
		}
		info.Items = append(info.Items, models.PlaylistItem{
			ID:    e.ID,
			Title: title,
			URL:   fmt.Sprintf(consts.WatchURLFormat, e.ID),
		})
	}
	return info, nil
}
