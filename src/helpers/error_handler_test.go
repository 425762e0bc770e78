package helpers

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"plug-explorer/src/logger"
)

func TestErrorKindsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("poll: %w", NewNetworkError("fetch /info failed", cause))

	if !IsNetworkError(err) {
		t.Fatal("expected wrapped NetworkError to be detected")
	}
	if IsDatabaseError(err) {
		t.Fatal("NetworkError must not match DatabaseError")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable through Unwrap")
	}
	if got := err.Error(); got != "poll: fetch /info failed: connection refused" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorHandlerCounts(t *testing.T) {
	l := logger.NewLogger("ERROR", "test")
	l.SetOutput(io.Discard)
	h := NewErrorHandler(l)

	h.Drop(errors.New("503"), "blockchain")
	h.Drop(errors.New("timeout"), "blockchain")
	h.Handle(errors.New("disk full"), "save_state")
	h.Drop(nil, "info")

	counts := h.Counts()
	if counts["blockchain"] != 2 || counts["save_state"] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
	if _, ok := counts["info"]; ok {
		t.Error("nil errors must not be counted")
	}

	h.ResetErrorCount()
	if len(h.Counts()) != 0 {
		t.Error("counts should be empty after reset")
	}
}
