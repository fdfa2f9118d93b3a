package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
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
			name:    "patch error",
			code:    CodeUnlocatedPatch,
			wantMsg: "Patch index outside the old tree",
			wantCat: CategoryPatch,
		},
		{
			name:    "engine error",
			code:    CodeCycleInProgress,
			wantMsg: "Update cycle already in progress",
			wantCat: CategoryEngine,
		},
		{
			name:    "tree error",
			code:    CodeTreeParse,
			wantMsg: "Tree file could not be parsed",
			wantCat: CategoryTree,
		},
		{
			name:    "unknown error code",
			code:    "E999",
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
	err := Newf(CategoryCLI, "file %q not found", "old.html")
	if err.Message != `file "old.html" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "old.html" not found`)
	}
	if err.Error() != `file "old.html" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeShapeMismatch)
	want := "E102: Live tree does not match the old tree"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New(CodeTreeParse).Wrap(fmt.Errorf("unexpected EOF"))
	want = "E201: Tree file could not be parsed: unexpected EOF"
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := fmt.Errorf("update: %w", New(CodeCycleInProgress).WithDetail("seq 4"))

	if !stderrors.Is(err, New(CodeCycleInProgress)) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New(CodeUnlocatedPatch)) {
		t.Error("errors.Is should not match a different code")
	}

	var e *Error
	if !stderrors.As(err, &e) || e.Detail != "seq 4" {
		t.Errorf("errors.As = %+v", e)
	}
}

func TestWrapAndFromError(t *testing.T) {
	inner := stderrors.New("boom")
	outer := New(CodeConfigInvalid).Wrap(inner)
	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}

	if FromError(nil, CodeConfigInvalid) != nil {
		t.Error("FromError(nil, ...) should return nil")
	}
	if FromError(outer, CodeTreeParse) != outer {
		t.Error("FromError should return *Error as-is")
	}
	if got := FromError(inner, CodeTreeParse); got.Code != CodeTreeParse || got.Wrapped != inner {
		t.Errorf("FromError = %+v", got)
	}
}

func TestWithLocationFromError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tree.yaml")
	content := "tag: div\nchildren:\n  - text: a\n  - bad: [\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New(CodeTreeParse).WithLocationFromError(file, fmt.Errorf("yaml: line 4: did not find expected node content"))
	if err.Location == nil || err.Location.Line != 4 {
		t.Fatalf("Location = %+v, want line 4", err.Location)
	}
	if len(err.Context) == 0 {
		t.Error("Context should not be empty")
	}

	err = New(CodeTreeParse).WithLocationFromError(file, fmt.Errorf("unexpected EOF"))
	if err.Location.String() != file {
		t.Errorf("Location = %q, want bare file", err.Location.String())
	}
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "a.html", Line: 10, Column: 5}, "a.html:10:5"},
		{"without column", &Location{File: "a.html", Line: 10}, "a.html:10"},
		{"file only", &Location{File: "a.html"}, "a.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeVerifyFailed).
		WithSuggestion("Run reconcile diff to inspect the patches").
		Wrap(stderrors.New("html differs"))

	formatted := err.Format()
	for _, want := range []string{"E400", "Patched tree differs", "Hint:", "Cause: html differs"} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() should not contain ANSI codes when colors are disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeInvalidTree).WithLocation("tree.yaml", 3, 0)
	want := "tree.yaml:3: E202: Invalid tree document"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestAllCodes(t *testing.T) {
	codes := AllCodes()
	if len(codes) != len(registry) {
		t.Fatalf("len(AllCodes()) = %d, want %d", len(codes), len(registry))
	}
	if codes[0] != CodeUnlocatedPatch {
		t.Errorf("AllCodes()[0] = %q, want %q", codes[0], CodeUnlocatedPatch)
	}
	if _, ok := Lookup("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}
