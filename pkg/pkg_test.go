package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "jamal"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	if Description == "" {
		t.Error("Expected Description to be non-empty")
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this test.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain %q", "ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestEnvPrefix(t *testing.T) {
	if got := EnvPrefix(); got != "JAMAL_" {
		t.Errorf("EnvPrefix() = %q, want %q", got, "JAMAL_")
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	t.Setenv("JAMAL_PATH", strings.Join([]string{b, "", a}, string(os.PathListSeparator)))

	got := SearchPath(a)

	if len(got) < 3 {
		t.Fatalf("SearchPath() = %v, want at least 3 entries", got)
	}

	if got[0] != a || got[1] != b {
		t.Errorf("SearchPath() = %v, want prefix %q then %q", got, a, b)
	}

	if slices.Contains(got, "") {
		t.Errorf("SearchPath() = %v contains empty entry", got)
	}

	if n := len(slices.DeleteFunc(slices.Clone(got), func(s string) bool { return s != a })); n != 1 {
		t.Errorf("SearchPath() contains %q %d times, want 1", a, n)
	}
}

func TestFindSource(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JAMAL_PATH", dir)

	full := filepath.Join(dir, "lib"+Extension)
	if err := os.WriteFile(full, []byte("a = 1"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"stdin", "-", "-"},
		{"absolute", full, full},
		{"with extension", "lib" + Extension, full},
		{"without extension", "lib", full},
		{"missing", "nope", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindSource(tt.in); got != tt.want {
				t.Errorf("FindSource(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
