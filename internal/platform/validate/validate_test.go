package validate

import (
	"strings"
	"testing"

	"github.com/yungbote/questlearn-backend/internal/domain/aggregates"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct("auth.register", signup{Email: "nope", Username: "ab"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("expected validation code, got %v", err)
	}
	msg := aggregates.MessageOf(err)
	if !strings.Contains(msg, "email") || !strings.Contains(msg, "username") {
		t.Fatalf("expected both json field names in %q", msg)
	}
}

func TestStructAcceptsValidInput(t *testing.T) {
	if err := Struct("auth.register", signup{Email: "a@example.com", Username: "abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
