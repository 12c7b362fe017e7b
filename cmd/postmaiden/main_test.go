package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_CreateListRepair(t *testing.T) {
	t.Setenv("POSTMAIDEN_STORAGE_DIR", t.TempDir())
	t.Setenv("POSTMAIDEN_LOG_LEVEL", "error")

	out, err := execute(t, "projects", "create", "Umbrella", "Corp", "API")
	if err != nil {
		t.Fatalf("projects create: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Umbrella Corp API") {
		t.Errorf("create output = %q", out)
	}

	out, err = execute(t, "projects", "list")
	if err != nil {
		t.Fatalf("projects list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Umbrella Corp API") {
		t.Errorf("list output = %q", out)
	}

	out, err = execute(t, "projects", "repair")
	if err != nil {
		t.Fatalf("projects repair: %v\n%s", err, out)
	}
	if !strings.Contains(out, "nothing to repair") {
		t.Errorf("repair output = %q", out)
	}
}

func TestCommands_ReadOnlyStoreIsBlocked(t *testing.T) {
	t.Setenv("POSTMAIDEN_STORAGE_DIR", t.TempDir())
	t.Setenv("POSTMAIDEN_STORAGE_READONLY", "true")
	t.Setenv("POSTMAIDEN_LOG_LEVEL", "error")

	if _, err := execute(t, "projects", "list"); err == nil {
		t.Error("expected the read-only store to be rejected")
	}
}
