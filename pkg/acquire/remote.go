package acquire

import (
	"net/url"
	"path"

	"podscribe/pkg/domain"
)

// EpisodeSource returns the remote AudioSource for a selected feed episode.
// No local download happens; remote transcription engines accept a URL and
// fetch it themselves, so a local copy would be redundant.
func EpisodeSource(episode domain.FeedEpisode) domain.AudioSource {
	return domain.NewRemoteSource(episode.AudioURL, episode.Title)
}

// DirectAudioSource wraps a URL already classified as audio-bearing. The
// display title is the URL's last path segment with any query string
// stripped, falling back to "podcast-episode".
func DirectAudioSource(rawURL string) domain.AudioSource {
	title := "podcast-episode"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			title = base
		}
	}
	return domain.NewRemoteSource(rawURL, title)
}
