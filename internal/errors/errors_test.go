package errors

import (
	"fmt"
	"testing"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	base := NotFound("endpoint", "seabase")
	wrapped := fmt.Errorf("step 3: %w", base)

	if !IsType(wrapped, TypeNotFound) {
		t.Fatalf("expected wrapped error to be NOT_FOUND, got %v", wrapped)
	}
	if IsType(wrapped, TypeConfig) {
		t.Error("wrapped NOT_FOUND error must not match CONFIG_ERROR")
	}
	if IsType(fmt.Errorf("plain"), TypeInternal) {
		t.Error("plain errors carry no type")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Parsing("bad scenario", fmt.Errorf("unexpected token"))
	want := "[PARSING_ERROR] bad scenario: unexpected token"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	err = Config("unknown tier").WithContext("value", "hardd")
	if err.Context["value"] != "hardd" {
		t.Errorf("Expected context value 'hardd', got %v", err.Context["value"])
	}
}
