package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrAllWeightsZero means no question can be drawn.
	ErrAllWeightsZero = errors.New("all question weights are zero")

	// ErrAlreadySubmitted is returned when the displayed question was graded.
	ErrAlreadySubmitted = errors.New("answer already submitted for this question")

	// ErrNotDisplayed is returned by Submit before any question is shown.
	ErrNotDisplayed = errors.New("no question is displayed")
)

// ValidationError describes user input that cannot be graded.
type ValidationError struct {
	Field   string // "certainty" or "selections"
	Input   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ConfigurationError describes a question pool or weight vector the engine
// cannot sample from.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Message, e.Err)
	}
	return "configuration: " + e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
