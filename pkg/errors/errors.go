package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies tracker errors by which stage of the pipeline produced them.
type Kind string

const (
	// KindConfiguration represents configuration errors; these abort the run
	KindConfiguration Kind = "configuration"
	// KindFetch represents network/HTTP errors while retrieving a career page
	KindFetch Kind = "fetch"
	// KindParse represents HTML parsing errors
	KindParse Kind = "parse"
	// KindNotify represents notification delivery errors
	KindNotify Kind = "notify"
	// KindStore represents persisted seen-set errors
	KindStore Kind = "store"
)

// TrackerError represents a pipeline error scoped to a company
type TrackerError struct {
	Kind    Kind
	Company string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Kind, e.Company, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Company, e.Message)
}

// Unwrap returns the underlying error
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error must abort the whole run. Only
// configuration errors qualify; everything else is isolated per company.
func (e *TrackerError) IsFatal() bool {
	return e.Kind == KindConfiguration
}

// New creates a new TrackerError
func New(kind Kind, company, message string, err error) *TrackerError {
	return &TrackerError{
		Kind:    kind,
		Company: company,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *TrackerError {
	return New(KindConfiguration, "", message, err)
}

// NewFetch creates a new fetch error
func NewFetch(company, message string, err error) *TrackerError {
	return New(KindFetch, company, message, err)
}

// NewParse creates a new parse error
func NewParse(company, message string, err error) *TrackerError {
	return New(KindParse, company, message, err)
}

// NewNotify creates a new notification error
func NewNotify(company, message string, err error) *TrackerError {
	return New(KindNotify, company, message, err)
}

// NewStore creates a new store error
func NewStore(company, message string, err error) *TrackerError {
	return New(KindStore, company, message, err)
}

// IsKind reports whether err is (or wraps) a TrackerError of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *TrackerError
	if errors.As(err, &te) {
		return te.Kind == kind
	}
	return false
}
