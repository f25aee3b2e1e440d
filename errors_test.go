package pulse

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pulse/event"
)

func TestCallbackError(t *testing.T) {
	inner := errors.New("disk full")
	err := &CallbackError{Subscription: 7, Tag: event.TagFor[testPing](), Err: inner}

	if !errors.Is(err, inner) {
		t.Error("expected CallbackError to unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "7") {
		t.Errorf("expected subscription ID in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected inner error in message, got %q", err.Error())
	}
}

func TestPanicError(t *testing.T) {
	err := &PanicError{Subscription: 3, Tag: event.TagFor[testPing](), Value: "boom"}

	if !errors.Is(err, ErrCallbackPanic) {
		t.Error("expected PanicError to match ErrCallbackPanic")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected panic value in message, got %q", err.Error())
	}
}
