package domain

// FeedEpisode is one playable entry extracted from a podcast feed. Required
// fields are always populated: the extractor defaults missing titles,
// descriptions, and GUIDs instead of surfacing empty values, and drops
// entries without a resolvable AudioURL entirely.
type FeedEpisode struct {
	Title       string
	Description string
	PublishedAt string
	AudioURL    string
	Duration    string
	GUID        string
}
