package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "registry error",
			code:    "S001",
			wantMsg: "No active registry",
			wantCat: CategoryRegistry,
		},
		{
			name:    "action error",
			code:    "S003",
			wantMsg: "Unknown action",
			wantCat: CategoryAction,
		},
		{
			name:    "config error",
			code:    "S010",
			wantMsg: "Invalid configuration",
			wantCat: CategoryConfig,
		},
		{
			name:    "unknown error code",
			code:    "S999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "scenario.yaml")
	if err.Message != `file "scenario.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("S003").WithDetail(`action "missing"`)
	want := `S003: Unknown action: action "missing"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("resolving: %w", New("S001").WithDetail("cart"))

	if !stderrors.Is(err, New("S001")) {
		t.Error("expected errors.Is to match S001")
	}
	if stderrors.Is(err, New("S002")) {
		t.Error("S001 must not match S002")
	}
	if stderrors.Is(err, &Error{Message: "no code"}) {
		t.Error("uncoded target must not match")
	}
}

func TestError_Builders(t *testing.T) {
	err := New("S001").
		WithDetailf("store %q", "cart").
		WithSuggestion("Activate a registry").
		WithExample("store.SetActive(store.NewRegistry())")

	if err.Detail != `store "cart"` {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "Activate a registry" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != "store.SetActive(store.NewRegistry())" {
		t.Errorf("Example = %q", err.Example)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("disk full")
	outer := New("S010").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should reach the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "S010") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	se := New("S001")
	if FromError(se, "S010") != se {
		t.Error("FromError should return *Error as is")
	}

	std := stderrors.New("boom")
	if got := FromError(std, "S010"); got.Wrapped != std || got.Code != "S010" {
		t.Errorf("unexpected wrap: %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("S001").
		WithSuggestion("Call SetActive").
		Wrap(stderrors.New("root cause")).
		Format()

	for _, want := range []string{"ERROR S001: No active registry", "Hint: Call SetActive", "Cause: root cause"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("wrapped: %w", New("S011")))
	if !strings.Contains(buf.String(), "ERROR S011") {
		t.Errorf("expected structured output, got %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, stderrors.New("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("expected plain output, got %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should produce no lines")
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("S002"); !ok {
		t.Error("S002 should be registered")
	}
	if _, ok := Lookup("E001"); ok {
		t.Error("E001 should not be registered")
	}
}
