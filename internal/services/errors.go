package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProvider marks failures of the external LLM capability (timeout,
	// quota, malformed completion). Degrades yield, never fatal to a run.
	ErrProvider = errors.New("provider error")
	// ErrValidation marks per-candidate schema violations. Recorded for
	// diagnostics, never fatal to a run.
	ErrValidation = errors.New("validation error")
	// ErrIntegrity marks upstream contract breaches (missing session or
	// speaker reference). Fatal to the run.
	ErrIntegrity = errors.New("integrity error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks failures with no better classification.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the whole pipeline run rather
// than degrade a single batch's yield.
func IsFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrProvider), errors.Is(err, ErrValidation):
		return false
	default:
		return true
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
