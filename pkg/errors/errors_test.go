package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "Please log in"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsAndCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(CodeNotFound, "media not found"))
	if !Is(wrapped, CodeNotFound) {
		t.Fatalf("expected wrapped error to carry NOT_FOUND")
	}
	if Is(wrapped, CodeConflict) {
		t.Fatalf("did not expect CONFLICT")
	}
	if CodeOf(stdErrors.New("plain")) != CodeInternal {
		t.Fatalf("untyped errors should map to internal")
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	if got := PublicMessage(New(CodeConflict, "Username or email already exists")); got != "Username or email already exists" {
		t.Fatalf("unexpected conflict message %q", got)
	}
	if got := PublicMessage(Wrap(CodeInternal, stdErrors.New("pq: connection reset"), "lookup user")); got != "internal server error" {
		t.Fatalf("internal errors must not leak, got %q", got)
	}
	if got := PublicMessage(stdErrors.New("boom")); got != "internal server error" {
		t.Fatalf("untyped errors must not leak, got %q", got)
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	if got := New(CodeNotFound, "media not found").Error(); got != "NOT_FOUND: media not found" {
		t.Fatalf("unexpected error string %q", got)
	}
	wrapped := Wrap(CodeDependency, stdErrors.New("dial tcp: refused"), "ping redis")
	if got := wrapped.Error(); got != "DEPENDENCY_ERROR: ping redis: dial tcp: refused" {
		t.Fatalf("unexpected wrapped string %q", got)
	}
	if Wrap(CodeInternal, nil, "bare").Unwrap() != nil {
		t.Fatalf("nil cause should unwrap to nil")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(CodeValidation, "rating must be between %d and %d", 0, 10)
	if err.Message() != "rating must be between 0 and 10" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}
