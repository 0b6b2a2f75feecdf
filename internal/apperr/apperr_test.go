package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessageMapsKinds(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthenticated, "Your session has expired. Please sign in again."},
		{ErrNotFound, "The requested record could not be found."},
		{ErrConflict, "That record already exists."},
		{ErrValidation, "Please check the highlighted fields and try again."},
		{ErrTransport, "Something went wrong talking to the server. Please try again."},
		{errors.New("anything else"), "Something went wrong talking to the server. Please try again."},
	}

	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMessageSeesWrappedKind(t *testing.T) {
	err := fmt.Errorf("insert campaigns: status 409: %w", ErrConflict)
	if got := Message(err); got != "That record already exists." {
		t.Errorf("Message(wrapped conflict) = %q", got)
	}
}
