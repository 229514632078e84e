package transcribe

import (
	"context"

	"podscribe/pkg/domain"
)

// Result is a terminal engine response: the full text plus speaker-segmented
// utterances. It is also the shape persisted as the structured .json
// artifact.
type Result struct {
	Text     string           `json:"text"`
	Segments []domain.Segment `json:"segments"`
}

// Engine is the speech-to-text boundary. Implementations own their internal
// upload/poll/retry loop; both calls block until the engine reports a
// terminal status. Failures are typed: KindTranscriptionFailed for a terminal
// error status from the engine, KindEngineError for transport or auth
// failures talking to it.
type Engine interface {
	TranscribeFile(ctx context.Context, path string) (*Result, error)
	TranscribeURL(ctx context.Context, audioURL string) (*Result, error)
}
