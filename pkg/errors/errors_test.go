package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeEmptyInput, "no enabled tools"),
			want: "EMPTY_INPUT: no enabled tools",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeInvalidCSV, stderrors.New("unexpected EOF"), "failed to read tools.csv"),
			want: "INVALID_CSV: failed to read tools.csv: unexpected EOF",
		},
		{
			name: "FormattedMessage",
			err:  New(ErrCodeDuplicatePosition, "duplicate position (%d,%d)", 2, 3),
			want: "DUPLICATE_POSITION: duplicate position (2,3)",
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

func TestIs(t *testing.T) {
	err := New(ErrCodeSpacingViolation, "holes too close")
	if !Is(err, ErrCodeSpacingViolation) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeMountOffsetViolation) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeSpacingViolation) {
		t.Error("Is should not match a plain error")
	}
}

func TestIsUnwrapsChain(t *testing.T) {
	inner := New(ErrCodeInvalidParams, "mount_style must be one of none, countersink, counterbore")
	wrapped := fmt.Errorf("loading config: %w", inner)

	if !Is(wrapped, ErrCodeInvalidParams) {
		t.Error("Is should find the code through wrapped errors")
	}
	if GetCode(wrapped) != ErrCodeInvalidParams {
		t.Errorf("GetCode = %q, want %q", GetCode(wrapped), ErrCodeInvalidParams)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "something broke")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidLabel, "tool at (0,1) has no label")
	if got := UserMessage(err); got != "tool at (0,1) has no label" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}

	if strings.Contains(UserMessage(err), string(ErrCodeInvalidLabel)) {
		t.Error("UserMessage should strip the code prefix")
	}
}

func TestGetCodeNonStructured(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
