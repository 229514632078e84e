package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"podscribe/pkg/domain"
)

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
}

func TestExtract_FiltersEntriesWithoutAudio(t *testing.T) {
	// Three entries, one lacking any audio reference: exactly two episodes
	// survive.
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
	<channel>
		<title>Test Podcast</title>
		<item>
			<title>Episode One</title>
			<description>First episode</description>
			<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
			<guid>guid-1</guid>
			<itunes:duration>30:00</itunes:duration>
			<enclosure url="https://example.com/ep1.mp3" length="1000" type="audio/mpeg"/>
		</item>
		<item>
			<title>Show notes only</title>
			<link>https://example.com/notes.html</link>
		</item>
		<item>
			<title>Episode Two</title>
			<link>https://example.com/ep2.mp3</link>
		</item>
	</channel>
</rss>`

	server := serveFeed(t, rssXML)
	defer server.Close()

	episodes, err := NewExtractor().Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(episodes) != 2 {
		t.Fatalf("Expected 2 episodes, got %d", len(episodes))
	}

	first := episodes[0]
	if first.Title != "Episode One" {
		t.Errorf("Expected title 'Episode One', got %q", first.Title)
	}
	if first.AudioURL != "https://example.com/ep1.mp3" {
		t.Errorf("Expected enclosure URL, got %q", first.AudioURL)
	}
	if first.Duration != "30:00" {
		t.Errorf("Expected duration '30:00', got %q", first.Duration)
	}
	if first.GUID != "guid-1" {
		t.Errorf("Expected guid 'guid-1', got %q", first.GUID)
	}

	second := episodes[1]
	if second.AudioURL != "https://example.com/ep2.mp3" {
		t.Errorf("Expected audio link fallback, got %q", second.AudioURL)
	}
}

func TestExtract_DefaultsMissingFields(t *testing.T) {
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Sparse Feed</title>
		<item>
			<enclosure url="https://example.com/ep1.mp3" length="1000" type="audio/mpeg"/>
		</item>
	</channel>
</rss>`

	server := serveFeed(t, rssXML)
	defer server.Close()

	episodes, err := NewExtractor().Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("Expected 1 episode, got %d", len(episodes))
	}

	episode := episodes[0]
	if episode.Title != "Episode 1" {
		t.Errorf("Expected defaulted title 'Episode 1', got %q", episode.Title)
	}
	if episode.Description != "No description available" {
		t.Errorf("Expected placeholder description, got %q", episode.Description)
	}
	if episode.GUID != "episode-0" {
		t.Errorf("Expected surrogate guid 'episode-0', got %q", episode.GUID)
	}
}

func TestExtract_StripsHTMLDescriptions(t *testing.T) {
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>HTML Feed</title>
		<item>
			<title>Episode</title>
			<description>&lt;p&gt;Hello   &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;</description>
			<enclosure url="https://example.com/ep1.mp3" length="1000" type="audio/mpeg"/>
		</item>
	</channel>
</rss>`

	server := serveFeed(t, rssXML)
	defer server.Close()

	episodes, err := NewExtractor().Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if episodes[0].Description != "Hello world" {
		t.Errorf("Expected stripped description 'Hello world', got %q", episodes[0].Description)
	}
}

func TestExtract_EmptyFeed(t *testing.T) {
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Empty Feed</title>
	</channel>
</rss>`

	server := serveFeed(t, rssXML)
	defer server.Close()

	_, err := NewExtractor().Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for empty feed, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindEmptyFeed {
		t.Errorf("Expected kind %s, got %s", domain.KindEmptyFeed, got)
	}
}

func TestExtract_NoAudioEpisodes(t *testing.T) {
	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Blog Feed</title>
		<item>
			<title>Post 1</title>
			<link>https://example.com/post1.html</link>
		</item>
		<item>
			<title>Post 2</title>
			<link>https://example.com/post2</link>
		</item>
	</channel>
</rss>`

	server := serveFeed(t, rssXML)
	defer server.Close()

	_, err := NewExtractor().Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for feed without audio, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindNoAudioEpisodes {
		t.Errorf("Expected kind %s, got %s", domain.KindNoAudioEpisodes, got)
	}
}

func TestExtract_InvalidFeedFormat(t *testing.T) {
	server := serveFeed(t, "<html><body>definitely not a feed</body></html>")
	defer server.Close()

	_, err := NewExtractor().Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for malformed feed, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindInvalidFeedFormat {
		t.Errorf("Expected kind %s, got %s", domain.KindInvalidFeedFormat, got)
	}
}

func TestExtract_NetworkFailureIsNotAFeedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewExtractor().Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for server failure, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindUnreachableSource {
		t.Errorf("Expected kind %s, got %s", domain.KindUnreachableSource, got)
	}
}
