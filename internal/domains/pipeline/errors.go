package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind labels why a turn ended in the fallback response.
type FailureKind string

const (
	KindNone               FailureKind = ""
	KindRecognitionFailure FailureKind = "recognition_failure"
	KindModelTimeout       FailureKind = "model_timeout"
	KindModelFailure       FailureKind = "model_failure"
	KindSynthesisFailure   FailureKind = "synthesis_failure"
	KindStorageFailure     FailureKind = "storage_failure"
	KindDeadlineExceeded   FailureKind = "deadline_exceeded"
	KindCanceled           FailureKind = "canceled"
	KindUnknown            FailureKind = "unknown"
)

// Kinds lists every kind a failed turn can carry.
var Kinds = []FailureKind{
	KindRecognitionFailure,
	KindModelTimeout,
	KindModelFailure,
	KindSynthesisFailure,
	KindStorageFailure,
	KindDeadlineExceeded,
	KindCanceled,
	KindUnknown,
}

type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageLock       Stage = "lock"
	StageProfile    Stage = "profile"
	StageHistory    Stage = "history"
	StageModel      Stage = "model"
	StageSynthesize Stage = "synthesize"
)

var ErrFallbackUnavailable = errors.New("fallback audio unavailable")

// StageError is a component failure tagged with its kind.
type StageError struct {
	Kind  FailureKind
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, kind FailureKind, err error) error {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// KindOf extracts the failure kind of err. Bare context errors map to
// deadline_exceeded or canceled.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	return KindUnknown
}

// classify resolves the kind reported at the boundary. An expired turn
// context supersedes whatever the component returned.
func classify(turnCtx context.Context, err error) FailureKind {
	switch {
	case errors.Is(turnCtx.Err(), context.DeadlineExceeded):
		return KindDeadlineExceeded
	case turnCtx.Err() != nil:
		return KindCanceled
	}
	return KindOf(err)
}
