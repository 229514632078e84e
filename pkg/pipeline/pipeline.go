package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"podscribe/pkg/acquire"
	"podscribe/pkg/classify"
	"podscribe/pkg/domain"
)

// StateFunc receives every state transition of a run. detail is a short
// human-readable note; for StateError it is the failure message.
type StateFunc func(state domain.ProcessingState, detail string)

// VideoFetcher downloads audio from a video-hosting URL.
type VideoFetcher interface {
	Fetch(ctx context.Context, videoURL string) (domain.AudioSource, error)
}

// UploadStager persists an uploaded container file and normalizes it to
// audio.
type UploadStager interface {
	Stage(ctx context.Context, filename string, r io.Reader) (domain.AudioSource, error)
}

// SourceClassifier probes a URL and reports whether it is a feed, direct
// audio, or neither.
type SourceClassifier interface {
	Classify(ctx context.Context, rawURL string) (classify.SourceType, error)
}

// EpisodeExtractor lists the playable episodes of a feed.
type EpisodeExtractor interface {
	Extract(ctx context.Context, feedURL string) ([]domain.FeedEpisode, error)
}

// Transcriber turns an AudioSource into a persisted transcript pair.
type Transcriber interface {
	Transcribe(ctx context.Context, source domain.AudioSource, outputBaseName string) (*domain.TranscriptArtifact, error)
}

// TranscriptIndex records finished transcripts for later listing. A nil
// index disables indexing.
type TranscriptIndex interface {
	SaveTranscript(ctx context.Context, record *domain.TranscriptRecord) error
}

// Config wires the pipeline collaborators.
type Config struct {
	Classifier  SourceClassifier
	Feeds       EpisodeExtractor
	Fetcher     VideoFetcher
	Stager      UploadStager
	Transcriber Transcriber
	Index       TranscriptIndex // optional
	OnState     StateFunc       // optional
}

// Pipeline exposes the three entry points (video URL, upload, podcast URL).
// Each run is a single sequential chain of blocking calls emitting states in
// the order Idle -> Downloading|Extracting -> Transcribing -> Complete|Error.
// The pipeline does not serialize concurrent submissions; running two runs
// against the same output base name is unsupported.
type Pipeline struct {
	classifier  SourceClassifier
	feeds       EpisodeExtractor
	fetcher     VideoFetcher
	stager      UploadStager
	transcriber Transcriber
	index       TranscriptIndex
	onState     StateFunc
}

// New validates the required collaborators and builds a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Feeds == nil {
		return nil, fmt.Errorf("feed extractor is required")
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("video fetcher is required")
	}
	if cfg.Stager == nil {
		return nil, fmt.Errorf("upload stager is required")
	}
	if cfg.Transcriber == nil {
		return nil, fmt.Errorf("transcriber is required")
	}
	return &Pipeline{
		classifier:  cfg.Classifier,
		feeds:       cfg.Feeds,
		fetcher:     cfg.Fetcher,
		stager:      cfg.Stager,
		transcriber: cfg.Transcriber,
		index:       cfg.Index,
		onState:     cfg.OnState,
	}, nil
}

// run tracks the state of one request lifecycle and enforces the ordered
// contract.
type run struct {
	pipeline *Pipeline
	state    domain.ProcessingState
}

func (p *Pipeline) newRun() *run {
	r := &run{pipeline: p, state: domain.StateIdle}
	r.emit(domain.StateIdle, "")
	return r
}

func (r *run) emit(state domain.ProcessingState, detail string) {
	if r.pipeline.onState != nil {
		r.pipeline.onState(state, detail)
	}
}

// advance moves the run forward, rejecting transitions that would violate
// the lifecycle order.
func (r *run) advance(next domain.ProcessingState, detail string) error {
	if !r.state.CanTransition(next) {
		return fmt.Errorf("illegal state transition %s -> %s", r.state, next)
	}
	r.state = next
	r.emit(next, detail)
	return nil
}

// fail marks the run terminal with the error's message and passes the error
// through.
func (r *run) fail(err error) error {
	if r.state.CanTransition(domain.StateError) {
		r.state = domain.StateError
		r.emit(domain.StateError, err.Error())
	}
	return err
}

// TranscribeVideoURL downloads audio from a video-hosting URL and transcribes
// it. The transcript base name is derived from the video title.
func (p *Pipeline) TranscribeVideoURL(ctx context.Context, videoURL string) (*domain.TranscriptArtifact, error) {
	r := p.newRun()
	if err := r.advance(domain.StateDownloading, "downloading audio"); err != nil {
		return nil, err
	}

	source, err := p.fetcher.Fetch(ctx, videoURL)
	if err != nil {
		return nil, r.fail(err)
	}

	return p.finish(ctx, r, source, videoURL)
}

// TranscribeUpload stages an uploaded container file and transcribes it. The
// transcript base name is derived from the (possibly transcoded) file name.
func (p *Pipeline) TranscribeUpload(ctx context.Context, filename string, file io.Reader) (*domain.TranscriptArtifact, error) {
	r := p.newRun()
	if err := r.advance(domain.StateExtracting, "extracting audio"); err != nil {
		return nil, err
	}

	source, err := p.stager.Stage(ctx, filename, file)
	if err != nil {
		return nil, r.fail(err)
	}

	return p.finish(ctx, r, source, "upload:"+filename)
}

// PodcastResolution is the outcome of probing a podcast URL: either a list of
// episodes to choose from, or a ready-to-transcribe remote source.
type PodcastResolution struct {
	Episodes []domain.FeedEpisode
	Source   *domain.AudioSource
}

// ResolvePodcastURL classifies the URL and either lists the feed's episodes
// (the episode-selection choice point, which always happens from Idle) or
// returns a direct remote audio source.
func (p *Pipeline) ResolvePodcastURL(ctx context.Context, rawURL string) (*PodcastResolution, error) {
	sourceType, err := p.classifier.Classify(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	switch sourceType {
	case classify.SourceFeed:
		episodes, err := p.feeds.Extract(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return &PodcastResolution{Episodes: episodes}, nil

	case classify.SourceAudio:
		source := acquire.DirectAudioSource(rawURL)
		return &PodcastResolution{Source: &source}, nil

	default:
		return nil, domain.NewError(domain.KindUnreachableSource,
			"unable to determine if the URL is a podcast feed or an audio file; please check the URL and try again")
	}
}

// TranscribeEpisode transcribes a selected feed episode by handing its audio
// URL straight to the engine. Downloading covers the engine-side fetch.
func (p *Pipeline) TranscribeEpisode(ctx context.Context, episode domain.FeedEpisode) (*domain.TranscriptArtifact, error) {
	if episode.AudioURL == "" {
		return nil, domain.NewError(domain.KindNoAudioEpisodes, "selected episode has no audio URL")
	}
	return p.TranscribeRemote(ctx, acquire.EpisodeSource(episode))
}

// TranscribeRemote transcribes a remote audio source produced by
// ResolvePodcastURL or EpisodeSource.
func (p *Pipeline) TranscribeRemote(ctx context.Context, source domain.AudioSource) (*domain.TranscriptArtifact, error) {
	r := p.newRun()
	if err := r.advance(domain.StateDownloading, "preparing remote audio"); err != nil {
		return nil, err
	}
	return p.finish(ctx, r, source, source.Location)
}

// finish runs the transcription stage shared by every entry point.
func (p *Pipeline) finish(ctx context.Context, r *run, source domain.AudioSource, origin string) (*domain.TranscriptArtifact, error) {
	if err := r.advance(domain.StateTranscribing, "transcribing audio"); err != nil {
		return nil, err
	}

	artifact, err := p.transcriber.Transcribe(ctx, source, source.DisplayName)
	if err != nil {
		return nil, r.fail(err)
	}

	if p.index != nil {
		record := &domain.TranscriptRecord{
			BaseName:     artifact.BaseName,
			Origin:       origin,
			SourceKind:   string(source.Kind),
			TextLocation: artifact.TextLocation,
			JSONLocation: artifact.JSONLocation,
			CreatedAt:    time.Now(),
		}
		if err := p.index.SaveTranscript(ctx, record); err != nil {
			// Artifacts on disk are the source of truth; a missed index row
			// is recoverable.
			log.Printf("pipeline: failed to index transcript %s: %v", artifact.BaseName, err)
		}
	}

	if err := r.advance(domain.StateComplete, "transcript ready"); err != nil {
		return nil, err
	}
	return artifact, nil
}
