package models

// PlaylistItem is one entry of a flat playlist listing.
type PlaylistItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaylistInfo is a read-only snapshot of a playlist.
type PlaylistInfo struct {
	Title string         `json:"playlist_title"`
	Items []PlaylistItem `json:"items"`
}
