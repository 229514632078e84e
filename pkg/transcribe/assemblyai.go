package transcribe

import (
	"context"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"podscribe/pkg/domain"
)

// AssemblyAIEngine transcribes audio through the AssemblyAI API with speaker
// labels enabled and auto chapters off. The SDK handles file upload and
// status polling internally, so each call is a single blocking unit of work.
type AssemblyAIEngine struct {
	client *aai.Client
}

// NewAssemblyAIEngine creates an engine authenticated with apiKey.
func NewAssemblyAIEngine(apiKey string) *AssemblyAIEngine {
	return &AssemblyAIEngine{client: aai.NewClient(apiKey)}
}

func transcriptParams() *aai.TranscriptOptionalParams {
	return &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
		AutoChapters:  aai.Bool(false),
	}
}

// TranscribeFile uploads a local audio file and blocks until a terminal
// status.
func (e *AssemblyAIEngine) TranscribeFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.WrapError(domain.KindEngineError, "unable to open audio file for transcription", err)
	}
	defer f.Close()

	transcript, err := e.client.Transcripts.TranscribeFromReader(ctx, f, transcriptParams())
	return e.toResult(transcript, err)
}

// TranscribeURL submits a remote audio URL; the engine fetches it itself.
func (e *AssemblyAIEngine) TranscribeURL(ctx context.Context, audioURL string) (*Result, error) {
	transcript, err := e.client.Transcripts.TranscribeFromURL(ctx, audioURL, transcriptParams())
	return e.toResult(transcript, err)
}

func (e *AssemblyAIEngine) toResult(transcript aai.Transcript, err error) (*Result, error) {
	if err != nil {
		return nil, domain.WrapError(domain.KindEngineError, "transcription engine request failed", err)
	}

	if transcript.Status != aai.TranscriptStatusCompleted {
		message := aai.ToString(transcript.Error)
		if message == "" {
			message = "transcription failed"
		}
		return nil, domain.NewError(domain.KindTranscriptionFailed, message)
	}

	result := &Result{Text: aai.ToString(transcript.Text)}
	for _, u := range transcript.Utterances {
		result.Segments = append(result.Segments, domain.Segment{
			Speaker:    aai.ToString(u.Speaker),
			Text:       aai.ToString(u.Text),
			StartMS:    aai.ToInt64(u.Start),
			EndMS:      aai.ToInt64(u.End),
			Confidence: aai.ToFloat64(u.Confidence),
		})
	}
	return result, nil
}
