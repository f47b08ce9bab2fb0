package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the kind of invariant an operation violated
type ErrorCategory string

const (
	// Programmer-input errors raised by the engine
	ErrorCategoryInvalidInput           ErrorCategory = "INVALID_INPUT"
	ErrorCategoryDegenerateDistribution ErrorCategory = "DEGENERATE_DISTRIBUTION"
	ErrorCategoryRetryExhausted         ErrorCategory = "RETRY_EXHAUSTED"

	// Errors raised around the engine by the driver
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryIO            ErrorCategory = "IO"
)

// Sentinels for errors.Is. They carry only a category and match any
// EvolutionError of the same category.
var (
	ErrInvalidInput           = &EvolutionError{Category: ErrorCategoryInvalidInput}
	ErrDegenerateDistribution = &EvolutionError{Category: ErrorCategoryDegenerateDistribution}
	ErrRetryExhausted         = &EvolutionError{Category: ErrorCategoryRetryExhausted}
	ErrConfiguration          = &EvolutionError{Category: ErrorCategoryConfiguration}
)

// EvolutionError represents a categorized error with context
type EvolutionError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *EvolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
	if len(e.Context) > 0 {
		b.WriteString(" (")
		first := true
		for _, key := range sortedKeys(e.Context) {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", key, e.Context[key])
			first = false
		}
		b.WriteString(")")
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *EvolutionError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target is a category sentinel matching this error.
func (e *EvolutionError) Is(target error) bool {
	t, ok := target.(*EvolutionError)
	if !ok {
		return false
	}
	if t.Component == "" && t.Operation == "" {
		return t.Category == e.Category
	}
	return t == e
}

// IsFatal returns whether this error should halt a run
func (e *EvolutionError) IsFatal() bool {
	switch e.Category {
	case ErrorCategoryIO:
		return false
	default:
		return true
	}
}

// NewEvolutionError creates a new categorized error
func NewEvolutionError(category ErrorCategory, component, operation, message string) *EvolutionError {
	return &EvolutionError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with evolution error context
func WrapError(err error, category ErrorCategory, component, operation string) *EvolutionError {
	if err == nil {
		return nil
	}

	return &EvolutionError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *EvolutionError) WithContext(key string, value interface{}) *EvolutionError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Common error constructors
func NewInvalidInputError(component, operation, message string) *EvolutionError {
	return NewEvolutionError(ErrorCategoryInvalidInput, component, operation, message)
}

func NewDegenerateDistributionError(component, operation, message string) *EvolutionError {
	return NewEvolutionError(ErrorCategoryDegenerateDistribution, component, operation, message)
}

func NewRetryExhaustedError(component, operation string, attempts int) *EvolutionError {
	return NewEvolutionError(ErrorCategoryRetryExhausted, component, operation, "retry limit reached").
		WithContext("attempts", attempts)
}

func NewConfigurationError(component, operation, message string) *EvolutionError {
	return NewEvolutionError(ErrorCategoryConfiguration, component, operation, message)
}

func NewIOError(component, operation string, err error) *EvolutionError {
	return WrapError(err, ErrorCategoryIO, component, operation)
}

// RecoveryAction is what a driver should do after an error
type RecoveryAction string

const (
	RecoveryActionStop RecoveryAction = "STOP"
	RecoveryActionSkip RecoveryAction = "SKIP"
)

// GetRecoveryAction suggests a recovery action based on error category
func (e *EvolutionError) GetRecoveryAction() RecoveryAction {
	if e.IsFatal() {
		return RecoveryActionStop
	}
	return RecoveryActionSkip
}

// CategoryOf returns the category of err, or "" when err carries none.
func CategoryOf(err error) ErrorCategory {
	for err != nil {
		if evoErr, ok := err.(*EvolutionError); ok {
			return evoErr.Category
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
