package opfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"go.uber.org/zap"
)

// FileOptions locates one logical file inside the sandbox.
type FileOptions struct {
	Filename string
	Subdir   string // optional, must not contain "/" or "_"
}

// FileAdapter stores one JSON-serializable value of type T as the whole content of a file.
type FileAdapter[T any] struct {
	root     *Root
	dir      string
	filename string
	codec    Codec[T]
}

// NewFileAdapter validates opts and creates the sub-directory and file if missing.
// A sub-directory with a reserved character fails before the filesystem is touched.
func NewFileAdapter[T any](ctx context.Context, root *Root, opts FileOptions, options ...FileAdapterOption[T]) (*FileAdapter[T], error) {
	if opts.Filename == "" {
		return nil, errs.New(errs.CodeInvalid, "filename is required")
	}

	dir, err := root.ensureDir(ctx, opts.Subdir)
	if err != nil {
		return nil, err
	}

	a := &FileAdapter[T]{root: root, dir: dir, filename: opts.Filename, codec: JSONCodec[T]{}}
	for _, opt := range options {
		opt(a)
	}
	if err := a.ensureFile(); err != nil {
		return nil, err
	}

	root.logger.Debug("file adapter ready", zap.String("dir", dir), zap.String("filename", opts.Filename))
	return a, nil
}

// Path returns the file's path relative to the sandbox root.
func (a *FileAdapter[T]) Path() string {
	return path.Join(a.dir, a.filename)
}

// Retrieve reads and decodes the file. An empty file, including one that was
// never written, yields (nil, nil), and so does a JSON null. Undecodable
// content yields a CodeParse error.
func (a *FileAdapter[T]) Retrieve(ctx context.Context) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := a.ensureFile(); err != nil {
		return nil, err
	}

	f, err := a.root.fs.Open(a.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", a.Path(), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.Path(), err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if nc, ok := a.codec.(nullCodec); ok && nc.IsNull(data) {
		return nil, nil
	}

	var value T
	if err := a.codec.Unmarshal(data, &value); err != nil {
		return nil, errs.Wrap(err, errs.CodeParse, "stored content cannot be decoded (corrupted data?)").
			WithMeta("path", a.Path())
	}
	return &value, nil
}

// Persist replaces the file's entire content with the encoded data.
// The writable file is closed on every path; a write failure is returned
// even when closing also fails.
func (a *FileAdapter[T]) Persist(ctx context.Context, data T) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := a.codec.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", a.Path(), err)
	}

	if _, err := a.root.fs.Stat(a.dir); err != nil {
		if err := a.root.fs.MkdirAll(a.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", a.dir, err)
		}
	}

	w, err := a.root.fs.OpenFile(a.Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open writable %s: %w", a.Path(), err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", a.Path(), cerr)
		}
	}()

	if _, err := w.Write(encoded); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.Path(), err)
	}
	return nil
}

// Remove deletes the file from its directory. It fails with CodeNotFound if
// the entry is already gone.
func (a *FileAdapter[T]) Remove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.root.fs.Remove(a.Path()); err != nil {
		return fmt.Errorf("failed to remove %s: %w", a.Path(), notFound(err, a.filename))
	}
	return nil
}

// ensureFile creates the directory and an empty file if either is absent.
func (a *FileAdapter[T]) ensureFile() error {
	if _, err := a.root.fs.Stat(a.Path()); err == nil {
		return nil
	}
	if err := a.root.fs.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", a.dir, err)
	}
	f, err := a.root.fs.OpenFile(a.Path(), os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", a.Path(), err)
	}
	return f.Close()
}
