package opfs

import (
	"context"
	"testing"

	"github.com/blackcoderx/postmaiden/pkg/errs"
)

func TestSingleton_SameConfigurationReusesAdapter(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newTestRoot(nil))

	first, err := Singleton[string](ctx, reg, FileOptions{Filename: "client-session.txt"})
	if err != nil {
		t.Fatalf("Singleton: %v", err)
	}
	second, err := Singleton[string](ctx, reg, FileOptions{Filename: "client-session.txt"})
	if err != nil {
		t.Fatalf("Singleton: %v", err)
	}
	if first != second {
		t.Error("same configuration returned different adapters")
	}

	other, err := Singleton[string](ctx, reg, FileOptions{Filename: "client-session.txt", Subdir: "other"})
	if err != nil {
		t.Fatalf("Singleton: %v", err)
	}
	if other == first {
		t.Error("different configuration returned the same adapter")
	}
	if reg.Len() != 2 {
		t.Errorf("Len = %d, want 2", reg.Len())
	}

	reg.Reset()
	if reg.Len() != 0 {
		t.Errorf("Len after Reset = %d, want 0", reg.Len())
	}
	third, err := Singleton[string](ctx, reg, FileOptions{Filename: "client-session.txt"})
	if err != nil {
		t.Fatalf("Singleton: %v", err)
	}
	if third == first {
		t.Error("Reset did not drop the memoized adapter")
	}
}

func TestSingleton_FailedConstructionNotMemoized(t *testing.T) {
	reg := NewRegistry(newTestRoot(nil))
	_, err := Singleton[string](context.Background(), reg, FileOptions{Filename: "x", Subdir: "bad_dir"})
	if !errs.IsCode(err, errs.CodeInvalid) {
		t.Errorf("error = %v, want code %q", err, errs.CodeInvalid)
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestSingleton_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newTestRoot(nil))
	if _, err := Singleton[string](ctx, reg, FileOptions{Filename: "x"}); err != nil {
		t.Fatalf("Singleton: %v", err)
	}
	_, err := Singleton[int](ctx, reg, FileOptions{Filename: "x"})
	if !errs.IsCode(err, errs.CodeInternal) {
		t.Errorf("error = %v, want code %q", err, errs.CodeInternal)
	}
}
