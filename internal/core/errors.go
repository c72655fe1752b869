package core

import (
	"errors"
	"fmt"
)

var ErrEmptyModel = errors.New("model cannot be empty")

// Step names the part of message generation that failed.
type Step string

const (
	StepRequest Step = "request"
	StepReply   Step = "reply"
)

type GenerationError struct {
	Step  Step
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("commit message %s failed for model %s: %v", e.Step, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
