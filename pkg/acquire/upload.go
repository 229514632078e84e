package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"podscribe/pkg/domain"
	"podscribe/pkg/store"
)

// allowedUploadExts mirrors the formats the upload form accepts.
var allowedUploadExts = map[string]bool{
	".mp4": true,
	".mp3": true,
	".m4a": true,
}

// Stager persists uploaded container files into the audio area and
// normalizes video containers into audio files.
type Stager struct {
	store      store.ArtifactStore
	transcoder *Transcoder
}

// NewStager wires the artifact store and the transcoder used for video
// uploads.
func NewStager(st store.ArtifactStore, transcoder *Transcoder) *Stager {
	return &Stager{store: st, transcoder: transcoder}
}

// Stage validates, persists, and (for video containers) transcodes one
// uploaded file, returning a local AudioSource. Audio uploads are never
// transcoded: the staged file is the source, byte for byte. Failed attempts
// leave no temp input or partial output behind.
func (s *Stager) Stage(ctx context.Context, filename string, r io.Reader) (domain.AudioSource, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExts[ext] {
		return domain.AudioSource{}, domain.NewError(domain.KindUnsupportedFormat,
			"unsupported file type: please upload MP4, MP3, or M4A files")
	}

	tempName := fmt.Sprintf("temp_%d%s", time.Now().UnixMilli(), ext)
	tempLoc, err := s.store.Put(store.KindAudio, tempName, r)
	if err != nil {
		return domain.AudioSource{}, domain.WrapError(domain.KindStorageError, "failed to save uploaded file", err)
	}

	if size, err := s.store.Size(tempLoc); err != nil || size == 0 {
		_ = s.store.Remove(tempLoc)
		return domain.AudioSource{}, domain.NewError(domain.KindEmptyArtifact, "uploaded file is empty")
	}

	if ext != ".mp4" {
		return domain.NewLocalSource(s.store.AbsPath(tempLoc), filename), nil
	}

	return s.extractAudio(ctx, filename, tempLoc)
}

// extractAudio converts a staged video into <name>.mp3 next to it.
func (s *Stager) extractAudio(ctx context.Context, filename, tempLoc string) (domain.AudioSource, error) {
	finalName := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".mp3"
	outLoc := s.store.Locate(store.KindAudio, finalName)

	if err := s.transcoder.Convert(ctx, s.store.AbsPath(tempLoc), s.store.AbsPath(outLoc)); err != nil {
		_ = s.store.Remove(tempLoc)
		_ = s.store.Remove(outLoc)

		var te *TranscodeError
		if errors.As(err, &te) && te.Diagnosis == DiagCodecMissing {
			return domain.AudioSource{}, domain.WrapError(domain.KindCodecUnavailable,
				"audio codec support is missing: ensure ffmpeg is installed with MP3 support", err)
		}
		return domain.AudioSource{}, domain.WrapError(domain.KindConversionFailed,
			"failed to extract audio from video", err)
	}

	_ = s.store.Remove(tempLoc)

	if size, err := s.store.Size(outLoc); err != nil || size == 0 {
		_ = s.store.Remove(outLoc)
		return domain.AudioSource{}, domain.NewError(domain.KindEmptyArtifact,
			"audio extraction produced an empty file")
	}

	return domain.NewLocalSource(s.store.AbsPath(outLoc), finalName), nil
}
