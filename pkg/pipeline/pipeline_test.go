package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"podscribe/pkg/classify"
	"podscribe/pkg/domain"
)

type fakeFetcher struct {
	source domain.AudioSource
	err    error
	gotURL string
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoURL string) (domain.AudioSource, error) {
	f.gotURL = videoURL
	return f.source, f.err
}

type fakeStager struct {
	source      domain.AudioSource
	err         error
	gotFilename string
}

func (f *fakeStager) Stage(ctx context.Context, filename string, r io.Reader) (domain.AudioSource, error) {
	f.gotFilename = filename
	return f.source, f.err
}

type fakeClassifier struct {
	result classify.SourceType
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, rawURL string) (classify.SourceType, error) {
	return f.result, f.err
}

type fakeFeeds struct {
	episodes []domain.FeedEpisode
	err      error
}

func (f *fakeFeeds) Extract(ctx context.Context, feedURL string) ([]domain.FeedEpisode, error) {
	return f.episodes, f.err
}

type fakeTranscriber struct {
	artifact  *domain.TranscriptArtifact
	err       error
	gotSource domain.AudioSource
	gotBase   string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, source domain.AudioSource, outputBaseName string) (*domain.TranscriptArtifact, error) {
	f.gotSource = source
	f.gotBase = outputBaseName
	return f.artifact, f.err
}

type fakeIndex struct {
	records []*domain.TranscriptRecord
	err     error
}

func (f *fakeIndex) SaveTranscript(ctx context.Context, record *domain.TranscriptRecord) error {
	f.records = append(f.records, record)
	return f.err
}

type stateRecorder struct {
	states  []domain.ProcessingState
	details []string
}

func (r *stateRecorder) record(state domain.ProcessingState, detail string) {
	r.states = append(r.states, state)
	r.details = append(r.details, detail)
}

func testArtifact() *domain.TranscriptArtifact {
	return &domain.TranscriptArtifact{
		BaseName:     "episode",
		Text:         "hello",
		TextLocation: "transcripts/episode.txt",
		JSONLocation: "transcripts/episode.json",
	}
}

func buildTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	if cfg.Classifier == nil {
		cfg.Classifier = &fakeClassifier{}
	}
	if cfg.Feeds == nil {
		cfg.Feeds = &fakeFeeds{}
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = &fakeFetcher{}
	}
	if cfg.Stager == nil {
		cfg.Stager = &fakeStager{}
	}
	if cfg.Transcriber == nil {
		cfg.Transcriber = &fakeTranscriber{artifact: testArtifact()}
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("Building pipeline failed: %v", err)
	}
	return p
}

func assertStates(t *testing.T, got []domain.ProcessingState, want ...domain.ProcessingState) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected states %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected states %v, got %v", want, got)
		}
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("Expected error for empty config, got nil")
	}
}

func TestTranscribeVideoURL_StateOrder(t *testing.T) {
	recorder := &stateRecorder{}
	fetcher := &fakeFetcher{source: domain.NewLocalSource("/audio/talk.mp3", "My Talk")}
	transcriber := &fakeTranscriber{artifact: testArtifact()}

	p := buildTestPipeline(t, Config{
		Fetcher:     fetcher,
		Transcriber: transcriber,
		OnState:     recorder.record,
	})

	artifact, err := p.TranscribeVideoURL(context.Background(), "https://video.example/watch?v=abc")
	if err != nil {
		t.Fatalf("TranscribeVideoURL failed: %v", err)
	}
	if artifact == nil {
		t.Fatal("Expected an artifact, got nil")
	}

	assertStates(t, recorder.states,
		domain.StateIdle, domain.StateDownloading, domain.StateTranscribing, domain.StateComplete)

	if fetcher.gotURL != "https://video.example/watch?v=abc" {
		t.Errorf("Fetcher received wrong URL %q", fetcher.gotURL)
	}
	if transcriber.gotBase != "My Talk" {
		t.Errorf("Expected transcript named after the video title, got %q", transcriber.gotBase)
	}
}

func TestTranscribeVideoURL_FetchFailure(t *testing.T) {
	recorder := &stateRecorder{}
	fetchErr := domain.NewError(domain.KindAcquisitionFailed, "download failed")

	p := buildTestPipeline(t, Config{
		Fetcher: &fakeFetcher{err: fetchErr},
		OnState: recorder.record,
	})

	_, err := p.TranscribeVideoURL(context.Background(), "https://video.example/watch?v=abc")
	if err == nil {
		t.Fatal("Expected fetch failure to surface, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindAcquisitionFailed {
		t.Errorf("Expected kind %s, got %s", domain.KindAcquisitionFailed, got)
	}

	assertStates(t, recorder.states,
		domain.StateIdle, domain.StateDownloading, domain.StateError)
	if last := recorder.details[len(recorder.details)-1]; last != "download failed" {
		t.Errorf("Expected the failure message in the error detail, got %q", last)
	}
}

func TestTranscribeUpload_StateOrderAndIndexing(t *testing.T) {
	recorder := &stateRecorder{}
	stager := &fakeStager{source: domain.NewLocalSource("/audio/talk.mp3", "talk.mp3")}
	index := &fakeIndex{}

	p := buildTestPipeline(t, Config{
		Stager:  stager,
		Index:   index,
		OnState: recorder.record,
	})

	_, err := p.TranscribeUpload(context.Background(), "talk.mp4", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("TranscribeUpload failed: %v", err)
	}

	assertStates(t, recorder.states,
		domain.StateIdle, domain.StateExtracting, domain.StateTranscribing, domain.StateComplete)

	if stager.gotFilename != "talk.mp4" {
		t.Errorf("Stager received wrong filename %q", stager.gotFilename)
	}

	if len(index.records) != 1 {
		t.Fatalf("Expected 1 index record, got %d", len(index.records))
	}
	record := index.records[0]
	if record.Origin != "upload:talk.mp4" {
		t.Errorf("Expected origin 'upload:talk.mp4', got %q", record.Origin)
	}
	if record.SourceKind != string(domain.LocalFile) {
		t.Errorf("Expected source kind %q, got %q", domain.LocalFile, record.SourceKind)
	}
	if record.BaseName != "episode" {
		t.Errorf("Expected base name from the artifact, got %q", record.BaseName)
	}
}

func TestTranscribeUpload_TranscriberFailure(t *testing.T) {
	recorder := &stateRecorder{}

	p := buildTestPipeline(t, Config{
		Stager:      &fakeStager{source: domain.NewLocalSource("/audio/talk.mp3", "talk.mp3")},
		Transcriber: &fakeTranscriber{err: domain.NewError(domain.KindTranscriptionFailed, "engine down")},
		OnState:     recorder.record,
	})

	_, err := p.TranscribeUpload(context.Background(), "talk.mp4", strings.NewReader("bytes"))
	if err == nil {
		t.Fatal("Expected transcriber failure to surface, got nil")
	}

	assertStates(t, recorder.states,
		domain.StateIdle, domain.StateExtracting, domain.StateTranscribing, domain.StateError)
}

func TestIndexFailureDoesNotFailTheRun(t *testing.T) {
	recorder := &stateRecorder{}
	index := &fakeIndex{err: fmt.Errorf("mongo unavailable")}

	p := buildTestPipeline(t, Config{
		Stager:  &fakeStager{source: domain.NewLocalSource("/audio/talk.mp3", "talk.mp3")},
		Index:   index,
		OnState: recorder.record,
	})

	artifact, err := p.TranscribeUpload(context.Background(), "talk.mp4", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Expected index failure to be non-fatal, got %v", err)
	}
	if artifact == nil {
		t.Fatal("Expected an artifact despite the index failure")
	}
	if recorder.states[len(recorder.states)-1] != domain.StateComplete {
		t.Errorf("Expected the run to complete, final state %s", recorder.states[len(recorder.states)-1])
	}
}

func TestResolvePodcastURL_Feed(t *testing.T) {
	episodes := []domain.FeedEpisode{
		{Title: "Episode One", AudioURL: "https://cdn.example/ep1.mp3"},
		{Title: "Episode Two", AudioURL: "https://cdn.example/ep2.mp3"},
	}

	p := buildTestPipeline(t, Config{
		Classifier: &fakeClassifier{result: classify.SourceFeed},
		Feeds:      &fakeFeeds{episodes: episodes},
	})

	resolution, err := p.ResolvePodcastURL(context.Background(), "https://podcast.example/feed.xml")
	if err != nil {
		t.Fatalf("ResolvePodcastURL failed: %v", err)
	}
	if len(resolution.Episodes) != 2 {
		t.Errorf("Expected 2 episodes, got %d", len(resolution.Episodes))
	}
	if resolution.Source != nil {
		t.Error("Expected no direct source for a feed URL")
	}
}

func TestResolvePodcastURL_DirectAudio(t *testing.T) {
	p := buildTestPipeline(t, Config{
		Classifier: &fakeClassifier{result: classify.SourceAudio},
	})

	resolution, err := p.ResolvePodcastURL(context.Background(), "https://cdn.example/show/ep1.mp3")
	if err != nil {
		t.Fatalf("ResolvePodcastURL failed: %v", err)
	}
	if resolution.Source == nil {
		t.Fatal("Expected a direct source for an audio URL")
	}
	if resolution.Source.Kind != domain.RemoteURL {
		t.Errorf("Expected a remote source, got %s", resolution.Source.Kind)
	}
	if resolution.Source.DisplayName != "ep1.mp3" {
		t.Errorf("Expected display name from the URL path, got %q", resolution.Source.DisplayName)
	}
}

func TestResolvePodcastURL_Unknown(t *testing.T) {
	p := buildTestPipeline(t, Config{
		Classifier: &fakeClassifier{result: classify.SourceUnknown},
	})

	_, err := p.ResolvePodcastURL(context.Background(), "https://example.com/page.html")
	if err == nil {
		t.Fatal("Expected error for unclassifiable URL, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindUnreachableSource {
		t.Errorf("Expected kind %s, got %s", domain.KindUnreachableSource, got)
	}
}

func TestTranscribeEpisode_RequiresAudioURL(t *testing.T) {
	p := buildTestPipeline(t, Config{})

	_, err := p.TranscribeEpisode(context.Background(), domain.FeedEpisode{Title: "No Audio"})
	if err == nil {
		t.Fatal("Expected error for episode without audio, got nil")
	}
	if got := domain.KindOf(err); got != domain.KindNoAudioEpisodes {
		t.Errorf("Expected kind %s, got %s", domain.KindNoAudioEpisodes, got)
	}
}

func TestTranscribeEpisode_StateOrder(t *testing.T) {
	recorder := &stateRecorder{}
	transcriber := &fakeTranscriber{artifact: testArtifact()}

	p := buildTestPipeline(t, Config{
		Transcriber: transcriber,
		OnState:     recorder.record,
	})

	episode := domain.FeedEpisode{Title: "Episode One", AudioURL: "https://cdn.example/ep1.mp3"}
	_, err := p.TranscribeEpisode(context.Background(), episode)
	if err != nil {
		t.Fatalf("TranscribeEpisode failed: %v", err)
	}

	assertStates(t, recorder.states,
		domain.StateIdle, domain.StateDownloading, domain.StateTranscribing, domain.StateComplete)

	if transcriber.gotSource.Kind != domain.RemoteURL {
		t.Errorf("Expected the episode handed over as a remote source, got %s", transcriber.gotSource.Kind)
	}
	if transcriber.gotBase != "Episode One" {
		t.Errorf("Expected transcript named after the episode title, got %q", transcriber.gotBase)
	}
}
