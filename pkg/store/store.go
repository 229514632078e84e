package store

import "io"

// Kind names an artifact area inside the store.
type Kind string

const (
	// KindAudio holds staged uploads and extracted audio files.
	KindAudio Kind = "audio"
	// KindTranscripts holds the <base>.txt / <base>.json sibling pairs.
	KindTranscripts Kind = "transcripts"
)

// ArtifactStore is a name-addressed artifact repository. The acquirer and the
// orchestrator depend only on this interface; any implementation (local disk,
// object store) satisfies them without change. Locations are store-relative,
// slash-separated strings such as "transcripts/demo.txt".
type ArtifactStore interface {
	// Put writes the reader's bytes under kind/name and returns the location.
	Put(kind Kind, name string, r io.Reader) (string, error)
	// Locate returns the location kind/name without writing anything.
	// External tools (ffmpeg, yt-dlp) write their output there directly.
	Locate(kind Kind, name string) string
	// AbsPath resolves a location to an absolute filesystem path.
	AbsPath(location string) string
	// Exists reports whether a regular file exists at location.
	Exists(location string) bool
	// Size returns the byte size of the artifact at location.
	Size(location string) (int64, error)
	// Remove deletes the artifact at location. Removing a missing artifact
	// is not an error.
	Remove(location string) error
}
