package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"podscribe/pkg/domain"
	"podscribe/pkg/store"
)

// Orchestrator drives an AudioSource through the transcription engine and
// persists the result as two sibling artifacts in the transcripts area.
type Orchestrator struct {
	engine Engine
	store  store.ArtifactStore
}

// NewOrchestrator wires the engine and the artifact store.
func NewOrchestrator(engine Engine, st store.ArtifactStore) *Orchestrator {
	return &Orchestrator{engine: engine, store: st}
}

// Transcribe blocks until the engine reports a terminal status, then writes
// <base>.txt followed by <base>.json, where base is outputBaseName with its
// extension stripped. A failure between the two writes deliberately leaves
// the .txt in place. Nothing is written when the engine fails.
func (o *Orchestrator) Transcribe(ctx context.Context, source domain.AudioSource, outputBaseName string) (*domain.TranscriptArtifact, error) {
	var (
		result *Result
		err    error
	)

	switch source.Kind {
	case domain.RemoteURL:
		result, err = o.engine.TranscribeURL(ctx, source.Location)
	case domain.LocalFile:
		if err := validateLocalAudio(source.Location); err != nil {
			return nil, err
		}
		result, err = o.engine.TranscribeFile(ctx, source.Location)
	default:
		return nil, domain.NewError(domain.KindEngineError,
			fmt.Sprintf("unknown audio source kind %q", source.Kind))
	}
	if err != nil {
		return nil, err
	}

	base := domain.BaseNameFor(outputBaseName)

	textLoc, err := o.store.Put(store.KindTranscripts, base+".txt", strings.NewReader(result.Text))
	if err != nil {
		return nil, domain.WrapError(domain.KindStorageError, "failed to write transcript text", err)
	}

	structured, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, domain.WrapError(domain.KindStorageError, "failed to encode structured transcript", err)
	}
	jsonLoc, err := o.store.Put(store.KindTranscripts, base+".json", bytes.NewReader(structured))
	if err != nil {
		return nil, domain.WrapError(domain.KindStorageError, "failed to write structured transcript", err)
	}

	return &domain.TranscriptArtifact{
		BaseName:     base,
		Text:         result.Text,
		Segments:     result.Segments,
		TextLocation: textLoc,
		JSONLocation: jsonLoc,
	}, nil
}

// validateLocalAudio enforces the AudioSource invariant: an existing,
// non-empty regular file at hand-off time.
func validateLocalAudio(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return domain.WrapError(domain.KindEmptyArtifact, "audio file not found", err)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return domain.NewError(domain.KindEmptyArtifact, "audio file is empty or not a regular file")
	}
	return nil
}
