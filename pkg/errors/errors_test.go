package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidColumns, "columns must be at least 1, got %d", 0),
			want: "INVALID_COLUMNS: columns must be at least 1, got 0",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeStore, fmt.Errorf("disk full"), "save board %q", "shelf"),
			want: `STORE_ERROR: save board "shelf": disk full`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeCache, cause, "read layout")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if New(ErrCodeBoardNotFound, "no board").Unwrap() != nil {
		t.Error("New should not carry a cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	dup := New(ErrCodeDuplicateItem, "item %q already on board", "dune")
	nested := fmt.Errorf("add item: %w", dup)

	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
	}{
		{"direct", dup, ErrCodeDuplicateItem, true, ErrCodeDuplicateItem},
		{"through fmt wrap", nested, ErrCodeDuplicateItem, true, ErrCodeDuplicateItem},
		{"other code", dup, ErrCodeItemNotFound, false, ErrCodeDuplicateItem},
		{"plain error", errors.New("boom"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.wantIs)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	coded := Wrap(ErrCodeInvalidRatio, errors.New("parse"), "ratio %q is not W:H", "wide")
	if got := UserMessage(coded); got != `ratio "wide" is not W:H` {
		t.Errorf("UserMessage(coded) = %q", got)
	}
	if got := UserMessage(fmt.Errorf("layout: %w", coded)); got != `ratio "wide" is not W:H` {
		t.Errorf("UserMessage(wrapped) = %q", got)
	}
	if got := UserMessage(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	withWait := &RateLimitedError{RetryAfter: 30}
	if got := withWait.Error(); got != "rate limited: retry after 30 seconds" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&RateLimitedError{}).Error(); got != "rate limited" {
		t.Errorf("Error() = %q", got)
	}
	if withWait.Code() != ErrCodeRateLimited {
		t.Errorf("Code() = %q", withWait.Code())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidColumns, http.StatusBadRequest},
		{ErrCodeInvalidPolicy, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeDuplicateItem, http.StatusConflict},
		{ErrCodeBoardNotFound, http.StatusNotFound},
		{ErrCodeItemNotFound, http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeStore, http.StatusServiceUnavailable},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_NEW"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(tt.code); got != tt.want {
				t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
