// Package opfs provides the private, sandboxed file store the rest of Postmaiden persists into.
//
// It's important that the rest of the application doesn't touch the underlying
// filesystem directly: every record is a whole JSON file, every listing is a
// directory read, and both go through the adapters in this package.
//
// File organization:
// - opfs.go: Root (the sandbox) and sub-directory naming rules
// - file.go: FileAdapter, one JSON record per file
// - dir.go: DirAdapter, filename enumeration and removal
// - registry.go: memoized FileAdapter instances per (filename, subdir)
// - capability.go: durable-write capability gate
package opfs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// MainDirectory is the application namespace inside the sandbox.
const MainDirectory = "postmaiden.com"

// subdirSeparator joins MainDirectory and a sub-directory name.
const subdirSeparator = "__"

// Root is the sandbox every adapter resolves its paths against.
type Root struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewRoot creates a sandbox root over the given filesystem.
// Use afero.NewBasePathFs to confine an OS directory, or afero.NewMemMapFs in tests.
func NewRoot(fs afero.Fs, logger *zap.Logger) *Root {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Root{fs: fs, logger: logger}
}

// Fs returns the underlying filesystem.
func (r *Root) Fs() afero.Fs {
	return r.fs
}

// ValidateSubdir rejects sub-directory names containing "/" or "_".
// The "_" is reserved because sub-directories are joined to MainDirectory with it.
func ValidateSubdir(subdir string) error {
	if strings.ContainsAny(subdir, "/_") {
		return errs.New(errs.CodeInvalid, `subdirectory cannot contain "/" or "_"`).WithMeta("subdir", subdir)
	}
	return nil
}

// DirPath returns the directory name for a sub-directory (empty means MainDirectory itself).
func DirPath(subdir string) string {
	if subdir == "" {
		return MainDirectory
	}
	return MainDirectory + subdirSeparator + subdir
}

// ensureDir validates the sub-directory and creates it if missing.
func (r *Root) ensureDir(ctx context.Context, subdir string) (string, error) {
	if err := ValidateSubdir(subdir); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := DirPath(subdir)
	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// notFound turns a missing-entry error into a CodeNotFound AppError.
func notFound(err error, name string) error {
	if os.IsNotExist(err) {
		return errs.Wrap(err, errs.CodeNotFound, "entry not found").WithMeta("filename", name)
	}
	return err
}
