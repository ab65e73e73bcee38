package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection reset")
	err := Wrap(ErrProvider, "extraction", "submit batch", "request failed", base)
	if !errors.Is(err, ErrProvider) {
		t.Fatal("wrapped error lost provider marker")
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped error lost cause")
	}
	for _, fragment := range []string{"extraction", "submit batch", "request failed"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error message missing %q: %s", fragment, err)
		}
	}
}

func TestWrapNilMarkerFallsBackToTransient(t *testing.T) {
	err := Wrap(nil, "extraction", "merge", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatal("nil marker should default to ErrTransient")
	}
}

func TestIsFatalClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"provider", Wrap(ErrProvider, "llm", "submit", "", nil), false},
		{"validation", Wrap(ErrValidation, "extraction", "validate", "", nil), false},
		{"integrity", Wrap(ErrIntegrity, "index", "resolve speaker", "", nil), true},
		{"configuration", Wrap(ErrConfiguration, "config", "load", "", nil), true},
		{"unclassified", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Fatalf("IsFatal = %v, want %v", got, tt.want)
			}
		})
	}
}
