package acquire

import (
	"context"
	"strings"

	"podscribe/pkg/domain"
	"podscribe/pkg/store"
)

// Fetcher resolves video-hosting URLs into local audio files via yt-dlp,
// which performs the audio extraction as part of the download.
type Fetcher struct {
	bin    string
	runner Runner
	store  store.ArtifactStore
}

// NewFetcher wires the yt-dlp binary (empty means "yt-dlp" on PATH), the
// command runner, and the artifact store.
func NewFetcher(bin string, runner Runner, st store.ArtifactStore) *Fetcher {
	return &Fetcher{bin: bin, runner: runner, store: st}
}

// Fetch resolves the video title, derives a filesystem-safe name, and
// downloads the extracted MP3 into the audio area.
func (f *Fetcher) Fetch(ctx context.Context, videoURL string) (domain.AudioSource, error) {
	title, err := f.resolveTitle(ctx, videoURL)
	if err != nil {
		return domain.AudioSource{}, err
	}

	location := f.store.Locate(store.KindAudio, SafeTitle(title)+".mp3")
	audioPath := f.store.AbsPath(location)

	output, err := f.runner.Run(ctx, f.binary(), videoURL, "-x", "--audio-format", "mp3", "-o", audioPath)
	if err != nil {
		_ = f.store.Remove(location)
		return domain.AudioSource{}, domain.WrapError(domain.KindAcquisitionFailed,
			"failed to download video audio", err).WithDetail(strings.TrimSpace(output))
	}

	if size, err := f.store.Size(location); err != nil || size == 0 {
		_ = f.store.Remove(location)
		return domain.AudioSource{}, domain.NewError(domain.KindEmptyArtifact,
			"downloaded audio file is missing or empty")
	}

	return domain.NewLocalSource(audioPath, title), nil
}

// resolveTitle asks yt-dlp for the video title without downloading anything.
func (f *Fetcher) resolveTitle(ctx context.Context, videoURL string) (string, error) {
	output, err := f.runner.Run(ctx, f.binary(), "--no-warnings", "--skip-download", "--print", "title", videoURL)
	if err != nil {
		return "", domain.WrapError(domain.KindAcquisitionFailed,
			"failed to resolve video metadata", err).WithDetail(strings.TrimSpace(output))
	}

	title := strings.TrimSpace(output)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		title = "audio"
	}
	return title, nil
}

func (f *Fetcher) binary() string {
	if f.bin == "" {
		return "yt-dlp"
	}
	return f.bin
}

// SafeTitle converts a video title into a filesystem-safe base name:
// non-alphanumerics become underscores and the result is lowercased.
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "audio"
	}
	return b.String()
}
