package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/guardstack"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "akinator.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
tree: animals.json
language: ru
logging:
  level: debug
stack:
  checksums: false
  max_capacity: 64
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	off := false
	want := Config{
		Tree:     "animals.json",
		Language: "ru",
		Logging:  Logging{Level: "debug", Format: "text"},
		Stack:    Stack{Checksums: &off, MaxCapacity: 64},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
	if f := cfg.Stack.Features(); f.Has(guardstack.Checksums) {
		t.Fatalf("checksums should be disabled, got %s", f)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeFile(t, "tree: [\n")); err == nil || !strings.Contains(err.Error(), "yaml unmarshal") {
		t.Fatalf("expected yaml error, got %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{
		Language: "fr",
		Logging:  Logging{Level: "loud", Format: "xml"},
		Stack:    Stack{MaxCapacity: 1},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"tree:", "language:", "logging.level:", "logging.format:", "stack.max_capacity:"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("missing %q in %v", want, err)
		}
	}
}

func TestStack_Features(t *testing.T) {
	on, off := true, false
	cases := []struct {
		name string
		in   Stack
		want guardstack.Features
	}{
		{"defaults", Stack{}, guardstack.DefaultFeatures()},
		{"all off", Stack{Guards: &off, Checksums: &off}, guardstack.NoFeatures},
		{"all on", Stack{Guards: &on, Checksums: &on}, guardstack.AllFeatures},
		{"guards only", Stack{Guards: &on, Checksums: &off}, guardstack.Guards},
	}
	for _, tc := range cases {
		if got := tc.in.Features(); got != tc.want {
			t.Fatalf("%s: features=%s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestStack_OptionsApplyToNewStacks(t *testing.T) {
	off := false
	s := Stack{Guards: &off, MaxCapacity: 2}
	stk := guardstack.New[int](guardstack.Here("cfg"), nil, s.Options()...)
	if stk.Features().Has(guardstack.Guards) {
		t.Fatalf("guards should be disabled")
	}
	_ = stk.Push(1)
	_ = stk.Push(2)
	if err := stk.Push(3); err == nil {
		t.Fatalf("max capacity not applied")
	}
}
