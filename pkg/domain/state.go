package domain

// ProcessingState tracks where a pipeline run is in its lifecycle. States are
// monotonic within a single run: Idle -> Downloading|Extracting ->
// Transcribing -> Complete|Error. No state is re-entered and Error is
// terminal.
type ProcessingState string

const (
	StateIdle         ProcessingState = "idle"
	StateDownloading  ProcessingState = "downloading"
	StateExtracting   ProcessingState = "extracting"
	StateTranscribing ProcessingState = "transcribing"
	StateComplete     ProcessingState = "complete"
	StateError        ProcessingState = "error"
)

// Terminal reports whether no further transitions are allowed from s.
func (s ProcessingState) Terminal() bool {
	return s == StateComplete || s == StateError
}

// CanTransition reports whether moving from s to next honors the ordered
// lifecycle. Error is reachable from any non-terminal state; a run that fails
// while still classifying its input goes Idle -> Error directly.
func (s ProcessingState) CanTransition(next ProcessingState) bool {
	switch s {
	case StateIdle:
		return next == StateDownloading || next == StateExtracting || next == StateError
	case StateDownloading, StateExtracting:
		return next == StateTranscribing || next == StateError
	case StateTranscribing:
		return next == StateComplete || next == StateError
	default:
		return false
	}
}
