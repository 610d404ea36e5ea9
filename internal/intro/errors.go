package intro

import (
	"fmt"

	"introsplice/internal/services"
)

// Stage names a pipeline step in logs and errors.
type Stage string

const (
	StageValidate   Stage = "validate"
	StageProbe      Stage = "probe"
	StagePad        Stage = "pad"
	StageIntro      Stage = "intro"
	StageTransition Stage = "transition"
	StageConcat     Stage = "concat"
	StagePublish    Stage = "publish"
)

// InputNotFoundError reports an input path that is not a regular file.
type InputNotFoundError struct {
	Role string
	Path string
	Err  error
}

func (e *InputNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s file not found: %s: %v", e.Role, e.Path, e.Err)
	}
	return fmt.Sprintf("%s file not found: %s", e.Role, e.Path)
}

func (e *InputNotFoundError) Unwrap() error { return e.Err }

func (e *InputNotFoundError) Is(target error) bool { return target == services.ErrNotFound }

// InvalidParameterError reports a caller parameter outside its accepted range.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == services.ErrValidation }

// PropertyExtractionError reports a main video whose resolution could not be read.
type PropertyExtractionError struct {
	Path   string
	Output string
	Err    error
}

func (e *PropertyExtractionError) Error() string {
	msg := fmt.Sprintf("could not get resolution from %s", e.Path)
	if e.Output != "" {
		msg += fmt.Sprintf(" (ffprobe printed %q)", e.Output)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PropertyExtractionError) Unwrap() error { return e.Err }

func (e *PropertyExtractionError) Is(target error) bool { return target == services.ErrExternalTool }

// RenderError reports a failed ffmpeg stage. Diagnostic holds the tool's stderr verbatim.
type RenderError struct {
	Stage      Stage
	Diagnostic string
	Err        error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s render failed", e.Stage)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Diagnostic != "" {
		msg += "\nffmpeg stderr: " + e.Diagnostic
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == services.ErrExternalTool }
