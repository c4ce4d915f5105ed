package envfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadPathKeepsExistingEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nexport DOCSENGINE_ENVFILE_A=\"from-file\"\nDOCSENGINE_ENVFILE_B='kept'\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DOCSENGINE_ENVFILE_B", "from-env")
	t.Setenv("DOCSENGINE_ENVFILE_A", "")
	os.Unsetenv("DOCSENGINE_ENVFILE_A")

	res := LoadPath(path)
	if res.Err != nil || !res.Loaded {
		t.Fatalf("expected loaded result, got %+v", res)
	}
	if res.Keys != 1 {
		t.Fatalf("expected one key applied, got %d", res.Keys)
	}
	if got := os.Getenv("DOCSENGINE_ENVFILE_A"); got != "from-file" {
		t.Fatalf("expected unquoted file value, got %q", got)
	}
	if got := os.Getenv("DOCSENGINE_ENVFILE_B"); got != "from-env" {
		t.Fatalf("expected environment to win, got %q", got)
	}
}

func TestLoadUsesOverridePath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	t.Setenv(EnvPathVar, missing)
	res := Load()
	if res.Path != missing || res.Loaded || res.Err == nil {
		t.Fatalf("expected failed load of override path, got %+v", res)
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# settings",
		"",
		"export A=1",
		"B = 'two words'",
		`C="unbalanced'`,
		"=missing-key",
		"D=",
		"E=x=y",
	}, "\n")
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []Entry{
		{Key: "A", Value: "1"},
		{Key: "B", Value: "two words"},
		{Key: "C", Value: `"unbalanced'`},
		{Key: "D", Value: ""},
		{Key: "E", Value: "x=y"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
