package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true},
		{code: CodePayloadTooLarge, status: http.StatusRequestEntityTooLarge, detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
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
	if meta.IsPublic() {
		t.Fatal("internal errors must not expose their message")
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

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestValidationNamesField(t *testing.T) {
	err := Validation("email", "email is required")
	details, ok := err.Details().(map[string]any)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["field"] != "email" {
		t.Fatalf("unexpected field %v", details["field"])
	}
	if err.Code() != CodeValidation {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "no entry"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCapturesChainAndPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "analytics_events_pkey", TableName: "analytics_events", Message: "duplicate"}
	err := Wrap(CodeDependency, fmt.Errorf("insert: %w", pgErr), "append event")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 3 {
		t.Fatalf("expected at least 3 chain entries, got %d", len(dump.Chain))
	}
	if dump.PGCode != "23505" || dump.PGTable != "analytics_events" {
		t.Fatalf("pg fields not captured: %+v", dump)
	}
	if _, ok := dump.Fields()["pg_code"]; !ok {
		t.Fatal("expected pg_code in log fields")
	}
}
