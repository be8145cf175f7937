package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidLayout, "unknown layout: %s", "9up")
	if !strings.Contains(err.Error(), "INVALID_LAYOUT") {
		t.Errorf("error should contain code: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "9up") {
		t.Errorf("error should contain formatted message: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("pdftoppm exited 1")
	err := Wrap(ErrCodeRasterize, cause, "failed to rasterize %s", "in.pdf")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "pdftoppm exited 1") {
		t.Errorf("error should contain cause: %s", err.Error())
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeJobNotFound, "job %s not found", "abc")
	if !Is(err, ErrCodeJobNotFound) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is should not match plain errors")
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	inner := New(ErrCodeInvalidPaper, "unknown paper")
	outer := Wrap(ErrCodeInternal, inner, "resolving sheet")

	// As finds the outermost *Error first.
	if !Is(outer, ErrCodeInternal) {
		t.Error("Is should match the outermost code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeOverflow, "cell too small")); got != ErrCodeOverflow {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeOverflow)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "margin must not be negative")
	if got := UserMessage(err); got != "margin must not be negative" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("something broke")
	if got := UserMessage(plain); got != "something broke" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
