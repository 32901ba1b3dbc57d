package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeDeckInvalidRankCap, "rank cap out of range")
	target := New(CodeDeckInvalidRankCap, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with equal codes to match")
	}
	if stderrors.Is(err, New(CodeNotFound, "missing")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeStorage, "save deck", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "save deck" {
		t.Fatalf("expected internal message, got %q", err.Error())
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeShareGrantMismatch, "audience mismatch", map[string]string{"Field": "audience"})
	if err.Metadata["Field"] != "audience" {
		t.Fatalf("expected metadata preserved, got %v", err.Metadata)
	}
}
