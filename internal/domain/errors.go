package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means a series is empty or too short
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMissingField means an expected input field is absent
	ErrMissingField = errors.New("missing field")
	// ErrUpstreamFailure means a data collaborator failed for a symbol
	ErrUpstreamFailure = errors.New("upstream failure")
	// ErrEmptySymbolSet rejects a request with no symbols
	ErrEmptySymbolSet = errors.New("empty symbol set")
	// ErrDuplicateBar rejects a bar series with two bars on one day
	ErrDuplicateBar = errors.New("duplicate price bar")
	// ErrNotFound is returned by stores for unknown keys
	ErrNotFound = errors.New("not found")
)

// Stage names a pipeline step
type Stage string

const (
	StageData           Stage = "data"
	StageTechnical      Stage = "technical"
	StageFundamental    Stage = "fundamental"
	StageSentiment      Stage = "sentiment"
	StageRisk           Stage = "risk"
	StageRecommendation Stage = "recommendation"
	StageMarket         Stage = "market"
)

// ErrorKind is the taxonomy bucket of a stage failure
type ErrorKind string

const (
	KindInsufficientData ErrorKind = "InsufficientData"
	KindMissingField     ErrorKind = "MissingField"
	KindUpstreamFailure  ErrorKind = "UpstreamFailure"
	KindUnknown          ErrorKind = "Unknown"
)

// KindOf classifies err against the sentinel errors
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	case errors.Is(err, ErrUpstreamFailure):
		return KindUpstreamFailure
	}
	return KindUnknown
}

// StageError is a per-symbol stage failure
type StageError struct {
	Symbol string
	Stage  Stage
	Err    error
}

// NewStageError wraps err for symbol and stage
func NewStageError(symbol string, stage Stage, err error) *StageError {
	return &StageError{Symbol: symbol, Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Symbol, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Kind classifies the wrapped error
func (e *StageError) Kind() ErrorKind { return KindOf(e.Err) }

// Failure converts the error into its serializable form
func (e *StageError) Failure() StageFailure {
	return StageFailure{
		Symbol:  e.Symbol,
		Stage:   e.Stage,
		Kind:    e.Kind(),
		Message: e.Err.Error(),
	}
}

// StageFailure is the serializable form of a StageError
type StageFailure struct {
	Symbol  string    `json:"symbol,omitempty"`
	Stage   Stage     `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
