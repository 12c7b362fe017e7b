package opfs

import (
	"context"
	"fmt"
	"path"
	"time"
)

// DirAdapter enumerates and removes entries of one sub-directory without reading their content.
type DirAdapter struct {
	root *Root
	dir  string
}

// NewDirAdapter validates subdir and creates it if missing.
func NewDirAdapter(ctx context.Context, root *Root, subdir string) (*DirAdapter, error) {
	dir, err := root.ensureDir(ctx, subdir)
	if err != nil {
		return nil, err
	}
	return &DirAdapter{root: root, dir: dir}, nil
}

// Path returns the directory path relative to the sandbox root.
func (d *DirAdapter) Path() string {
	return d.dir
}

// RetrieveFilenames lists every entry name in the order the filesystem returns them.
// An empty directory yields an empty, non-nil slice.
func (d *DirAdapter) RetrieveFilenames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := d.root.fs.Open(d.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", d.dir, err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dir, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// RemoveByFilename deletes the named entry. It fails with CodeNotFound if absent.
func (d *DirAdapter) RemoveByFilename(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.root.fs.Remove(path.Join(d.dir, filename)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", filename, notFound(err, filename))
	}
	return nil
}

// ModTime returns the last modification time of the named entry.
func (d *DirAdapter) ModTime(ctx context.Context, filename string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	info, err := d.root.fs.Stat(path.Join(d.dir, filename))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", filename, notFound(err, filename))
	}
	return info.ModTime(), nil
}
