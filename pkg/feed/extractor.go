package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"podscribe/pkg/classify"
	"podscribe/pkg/domain"
)

const defaultDescription = "No description available"

// Extractor turns a feed URL into a normalized, filtered list of playable
// episodes.
type Extractor struct {
	parser *gofeed.Parser
}

// NewExtractor creates a feed extractor backed by gofeed.
func NewExtractor() *Extractor {
	return &Extractor{parser: gofeed.NewParser()}
}

// Extract fetches and parses the feed, returning its episodes in feed order.
// Entries without a resolvable audio reference are dropped, never surfaced.
// Missing titles, descriptions, and GUIDs are defaulted deterministically so
// callers never see absent required fields.
func (e *Extractor) Extract(ctx context.Context, feedURL string) ([]domain.FeedEpisode, error) {
	parsed, err := e.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, domain.WrapError(domain.KindUnreachableSource,
				fmt.Sprintf("unable to access feed: server returned %d", httpErr.StatusCode), err)
		}
		return nil, domain.WrapError(domain.KindInvalidFeedFormat,
			"invalid feed format: please check that the URL points to a valid podcast feed", err)
	}

	if parsed == nil || len(parsed.Items) == 0 {
		return nil, domain.NewError(domain.KindEmptyFeed, "no episodes found in this feed")
	}

	episodes := make([]domain.FeedEpisode, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		audioURL := episodeAudioURL(item)
		if audioURL == "" {
			continue
		}
		episodes = append(episodes, buildEpisode(item, i, audioURL))
	}

	if len(episodes) == 0 {
		return nil, domain.NewError(domain.KindNoAudioEpisodes,
			"no audio files found in this feed; make sure it is a podcast feed with audio episodes")
	}

	return episodes, nil
}

// episodeAudioURL prefers an explicit enclosure; an entry link is accepted
// only when its path carries a recognized audio extension.
func episodeAudioURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && strings.TrimSpace(enc.URL) != "" {
			return strings.TrimSpace(enc.URL)
		}
	}
	if link := strings.TrimSpace(item.Link); link != "" && classify.HasAudioExtension(link) {
		return link
	}
	return ""
}

func buildEpisode(item *gofeed.Item, index int, audioURL string) domain.FeedEpisode {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = fmt.Sprintf("Episode %d", index+1)
	}

	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = strings.TrimSpace(item.Content)
	}
	if description == "" {
		description = defaultDescription
	} else {
		description = plainText(description)
	}

	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		guid = fmt.Sprintf("episode-%d", index)
	}

	episode := domain.FeedEpisode{
		Title:       title,
		Description: description,
		PublishedAt: strings.TrimSpace(item.Published),
		AudioURL:    audioURL,
		GUID:        guid,
	}

	if item.ITunesExt != nil {
		episode.Duration = strings.TrimSpace(item.ITunesExt.Duration)
	}

	return episode
}

// plainText reduces an HTML fragment (common in feed descriptions) to
// whitespace-normalized text.
func plainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeWhitespace(html)
	}
	text := normalizeWhitespace(doc.Text())
	if text == "" {
		return defaultDescription
	}
	return text
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
