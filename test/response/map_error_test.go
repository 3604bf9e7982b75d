package response_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/youthfc/team-manager-service/internal/repository"
	"github.com/youthfc/team-manager-service/internal/service"
	"github.com/youthfc/team-manager-service/pkg/response"
)

// wrappedState mimics the service's state errors without reaching into internals.
type wrappedState struct{ msg string }

func (w *wrappedState) Error() string { return w.msg }
func (w *wrappedState) Unwrap() error { return service.ErrInvalidState }

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_input", service.NewInvalidInputError([]service.FieldError{{Field: "name", Message: "bad"}}), 400, "invalid_input"},
		{"invalid_state", &wrappedState{msg: "cannot start a completed match"}, 409, "invalid_state"},
		{"not_found", repository.ErrNotFound, 404, "not_found"},
		{"wrapped_not_found", fmt.Errorf("lookup: %w", repository.ErrNotFound), 404, "not_found"},
		{"already_exists", repository.ErrAlreadyExists, 409, "already_exists"},
		{"conflict", repository.ErrConflict, 409, "conflict"},
		{"internal", errors.New("boom"), 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			if code != tc.wantCode || payload.Error != tc.wantErr {
				t.Fatalf("unexpected mapping: got (%d,%s) want (%d,%s)", code, payload.Error, tc.wantCode, tc.wantErr)
			}
			if tc.wantErr == "invalid_input" && len(payload.FieldErrors) == 0 {
				t.Fatalf("expected field errors in payload")
			}
			if tc.wantErr == "invalid_state" && payload.Message == "" {
				t.Fatalf("expected transition message in payload")
			}
		})
	}
}
