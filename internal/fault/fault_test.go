package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"configuration", Configuration("missing api token"), KindConfiguration},
		{"transient", TransientFetch(errors.New("dial tcp"), "free slots"), KindTransientFetch},
		{"validation", Validation("service %q not in catalog", "cut"), KindValidation},
		{"integrity", DataIntegrity(nil, "missing date key"), KindDataIntegrity},
		{"not found", NotFound("tenant %s", "t1"), KindNotFound},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := TransientFetch(errors.New("status 502"), "create appointment")
	wrapped := fmt.Errorf("commit booking: %w", inner)
	if got := KindOf(wrapped); got != KindTransientFetch {
		t.Fatalf("KindOf(wrapped) = %v, want %v", got, KindTransientFetch)
	}
}

func TestErrorMessage(t *testing.T) {
	err := TransientFetch(errors.New("connection refused"), "free slots for %s", "2026-03-01")
	want := "free slots for 2026-03-01: connection refused"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Unwrap() == nil {
		t.Fatal("Unwrap() should expose the transport error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), 400},
		{NotFound("tenant"), 404},
		{Configuration("no token"), 422},
		{TransientFetch(nil, "gateway"), 502},
		{DataIntegrity(nil, "shape"), 502},
		{errors.New("other"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindTransientFetch.String() != "transient_fetch" {
		t.Fatalf("unexpected string: %s", KindTransientFetch)
	}
	if Kind(99).String() != "unknown" {
		t.Fatalf("out-of-range kind should stringify as unknown")
	}
}
