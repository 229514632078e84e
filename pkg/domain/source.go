package domain

// SourceKind distinguishes how the transcription engine reaches the audio.
type SourceKind string

const (
	// LocalFile means Location is a path to an audio file on this machine.
	LocalFile SourceKind = "local"
	// RemoteURL means Location is a URL the engine fetches itself.
	RemoteURL SourceKind = "remote"
)

// AudioSource is the canonical reference to audio that is ready for
// transcription. It is produced by the acquirer (or directly from a feed
// episode) and never mutated afterwards. For LocalFile sources, Location must
// point at an existing, non-empty regular file when the source is handed to
// the orchestrator.
type AudioSource struct {
	Kind        SourceKind
	Location    string
	DisplayName string
}

// NewLocalSource references an audio file on the local filesystem.
func NewLocalSource(path, displayName string) AudioSource {
	return AudioSource{Kind: LocalFile, Location: path, DisplayName: displayName}
}

// NewRemoteSource references audio by URL, deferring the fetch to the
// transcription engine.
func NewRemoteSource(audioURL, displayName string) AudioSource {
	return AudioSource{Kind: RemoteURL, Location: audioURL, DisplayName: displayName}
}
