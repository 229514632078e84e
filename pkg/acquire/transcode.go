package acquire

import (
	"context"
	"fmt"
	"strings"
)

// Profile describes one ffmpeg invocation strategy. Profiles are tried in
// order until one succeeds or the list is exhausted.
type Profile struct {
	Name string
	Args func(inputPath, outputPath string) []string
}

// DefaultProfiles returns the primary VBR-quality encode followed by an
// explicit channels/sample-rate fallback for inputs the primary profile
// rejects.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name: "mp3-quality",
			Args: func(in, out string) []string {
				return []string{"-y", "-i", in, "-vn", "-f", "mp3", "-q:a", "2", out}
			},
		},
		{
			Name: "mp3-stereo-44k",
			Args: func(in, out string) []string {
				return []string{"-y", "-i", in, "-vn", "-f", "mp3", "-ac", "2", "-ar", "44100", out}
			},
		},
	}
}

// Diagnosis classifies a transcode failure at the ffmpeg boundary so callers
// never inspect vendor error text themselves.
type Diagnosis int

const (
	// DiagGeneric is a conversion failure with no actionable remediation.
	DiagGeneric Diagnosis = iota
	// DiagCodecMissing means the encoder is absent from the ffmpeg build;
	// installing ffmpeg with MP3 support fixes it.
	DiagCodecMissing
)

// TranscodeError carries the structured diagnosis plus ffmpeg's combined
// output for the failed attempt.
type TranscodeError struct {
	Diagnosis Diagnosis
	Profile   string
	Output    string
	Err       error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode profile %s failed: %v", e.Profile, e.Err)
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// Transcoder converts container files into decodable audio via ffmpeg.
type Transcoder struct {
	bin      string
	runner   Runner
	profiles []Profile
}

// NewTranscoder builds a transcoder using the default profile list. An empty
// bin falls back to "ffmpeg" on PATH.
func NewTranscoder(bin string, runner Runner) *Transcoder {
	return &Transcoder{bin: bin, runner: runner, profiles: DefaultProfiles()}
}

// Convert runs the profile list in order. On success the output file exists
// at outputPath. On failure the last attempt's TranscodeError is returned;
// removing partial output is the caller's responsibility (it owns the
// staging lifecycle).
func (t *Transcoder) Convert(ctx context.Context, inputPath, outputPath string) error {
	bin := t.bin
	if bin == "" {
		bin = "ffmpeg"
	}

	var last *TranscodeError
	for _, profile := range t.profiles {
		output, err := t.runner.Run(ctx, bin, profile.Args(inputPath, outputPath)...)
		if err == nil {
			return nil
		}
		last = &TranscodeError{
			Diagnosis: diagnose(output, err),
			Profile:   profile.Name,
			Output:    output,
			Err:       err,
		}
	}

	if last == nil {
		return &TranscodeError{Profile: "none", Err: fmt.Errorf("no transcode profiles configured")}
	}
	return last
}

// diagnose inspects ffmpeg output for a missing-encoder signature. This is
// the only place vendor text is interpreted; everything downstream works with
// the Diagnosis enum.
func diagnose(output string, err error) Diagnosis {
	text := strings.ToLower(output)
	if err != nil {
		text += " " + strings.ToLower(err.Error())
	}
	if strings.Contains(text, "unknown encoder") ||
		strings.Contains(text, "codec") ||
		strings.Contains(text, "not available") {
		return DiagCodecMissing
	}
	return DiagGeneric
}
