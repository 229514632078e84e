package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Segment is one speaker-attributed span of a transcript.
type Segment struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	StartMS    int64   `json:"start_ms"`
	EndMS      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence"`
}

// TranscriptArtifact is the result of a finished transcription: the in-memory
// content plus the store locations of the two sibling files
// (<BaseName>.txt and <BaseName>.json).
type TranscriptArtifact struct {
	BaseName     string
	Text         string
	Segments     []Segment
	TextLocation string
	JSONLocation string
}

// TranscriptRecord is the index row persisted for every finished transcript.
type TranscriptRecord struct {
	BaseName     string    `bson:"base_name" json:"base_name"`
	Origin       string    `bson:"origin" json:"origin"`
	SourceKind   string    `bson:"source_kind" json:"source_kind"`
	TextLocation string    `bson:"text_location" json:"text_location"`
	JSONLocation string    `bson:"json_location" json:"json_location"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// BaseNameFor strips the extension from a caller-provided filename or title,
// e.g. "My Episode.m4a" -> "My Episode". Names without an extension are
// returned unchanged.
func BaseNameFor(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
