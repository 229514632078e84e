package domain

import "errors"

// ErrorKind classifies pipeline failures. Every external-collaborator failure
// is re-expressed as one of these kinds at the component boundary; raw vendor
// errors never cross a boundary unwrapped.
type ErrorKind string

const (
	KindAccessDenied        ErrorKind = "access_denied"
	KindNotFound            ErrorKind = "not_found"
	KindUnreachableSource   ErrorKind = "unreachable_source"
	KindInvalidFeedFormat   ErrorKind = "invalid_feed_format"
	KindEmptyFeed           ErrorKind = "empty_feed"
	KindNoAudioEpisodes     ErrorKind = "no_audio_episodes"
	KindUnsupportedFormat   ErrorKind = "unsupported_format"
	KindEmptyArtifact       ErrorKind = "empty_artifact"
	KindConversionFailed    ErrorKind = "conversion_failed"
	KindCodecUnavailable    ErrorKind = "codec_unavailable"
	KindAcquisitionFailed   ErrorKind = "acquisition_failed"
	KindTranscriptionFailed ErrorKind = "transcription_failed"
	KindEngineError         ErrorKind = "engine_error"
	KindStorageError        ErrorKind = "storage_error"
)

// Error is the typed failure surfaced by pipeline components. Message is a
// short human-readable summary; Detail optionally carries the collaborator
// diagnostic.
type Error struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a pipeline error with no underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds a pipeline error around a collaborator failure, keeping
// the original error both as Detail text and for errors.Is/As chains.
func WrapError(kind ErrorKind, message string, err error) *Error {
	e := &Error{Kind: kind, Message: message, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

// WithDetail attaches diagnostic text (e.g. captured tool output) and returns
// the error for chaining.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// KindOf returns the kind carried by err, or "" when err is not a pipeline
// error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
