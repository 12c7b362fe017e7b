package runtime

import (
	"testing"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestSubstituteVariables(t *testing.T) {
	t.Setenv("POSTMAIDEN_TEST_TOKEN", "from-env")
	env := map[string]string{"HOST": "localhost:8080", "ID": "42"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "no placeholders", text: "https://example.com", want: "https://example.com"},
		{name: "single", text: "http://{{HOST}}/users", want: "http://localhost:8080/users"},
		{name: "multiple", text: "http://{{HOST}}/users/{{ID}}", want: "http://localhost:8080/users/42"},
		{name: "spaces inside braces", text: "{{ ID }}", want: "42"},
		{name: "unknown kept", text: "{{MISSING}}", want: "{{MISSING}}"},
		{name: "process env", text: "Bearer {{env:POSTMAIDEN_TEST_TOKEN}}", want: "Bearer from-env"},
		{name: "unset process env kept", text: "{{env:POSTMAIDEN_TEST_UNSET}}", want: "{{env:POSTMAIDEN_TEST_UNSET}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubstituteVariables(tt.text, env); got != tt.want {
				t.Errorf("SubstituteVariables(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("POSTMAIDEN_TEST_SECRET", "hunter2")
	fs := afero.NewMemMapFs()
	content := "BASE: https://api.example.com\nSECRET: \"{{env:POSTMAIDEN_TEST_SECRET}}\"\nLOCAL: \"{{BASE}}\"\n"
	if err := afero.WriteFile(fs, "dev.yaml", []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env, err := LoadEnvironment(fs, "dev.yaml")
	if err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	want := map[string]string{
		"BASE":   "https://api.example.com",
		"SECRET": "hunter2",
		"LOCAL":  "{{BASE}}",
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("environment mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvironment_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := LoadEnvironment(fs, "missing.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}

	if err := afero.WriteFile(fs, "bad.yaml", []byte("- not\n- a map\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := LoadEnvironment(fs, "bad.yaml")
	if !errs.IsCode(err, errs.CodeParse) {
		t.Errorf("error = %v, want code %q", err, errs.CodeParse)
	}
}
