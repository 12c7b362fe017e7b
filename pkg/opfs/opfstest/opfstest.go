// Package opfstest provides filesystem doubles for tests of the opfs-backed layers.
package opfstest

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// ErrInjected is returned by FailingWritesFs writes.
var ErrInjected = errors.New("injected write failure")

// CountingFs wraps an afero.Fs and counts every call that reaches storage.
type CountingFs struct {
	afero.Fs

	mu    sync.Mutex
	calls map[string]int
	// Writes counts OpenFile calls with a write flag, i.e. persist operations.
	writes int
}

// NewCountingFs wraps fs, or a fresh MemMapFs when fs is nil.
func NewCountingFs(fs afero.Fs) *CountingFs {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return &CountingFs{Fs: fs, calls: make(map[string]int)}
}

func (c *CountingFs) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[op]++
}

// Calls returns the number of calls recorded for op ("Open", "OpenFile", ...).
func (c *CountingFs) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// Total returns the number of calls recorded for every operation.
func (c *CountingFs) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// Writes returns the number of files opened for writing with truncation.
func (c *CountingFs) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Reset clears every counter.
func (c *CountingFs) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = make(map[string]int)
	c.writes = 0
}

// Create records the call and delegates.
func (c *CountingFs) Create(name string) (afero.File, error) {
	c.record("Create")
	return c.Fs.Create(name)
}

// Mkdir records the call and delegates.
func (c *CountingFs) Mkdir(name string, perm os.FileMode) error {
	c.record("Mkdir")
	return c.Fs.Mkdir(name, perm)
}

// MkdirAll records the call and delegates.
func (c *CountingFs) MkdirAll(path string, perm os.FileMode) error {
	c.record("MkdirAll")
	return c.Fs.MkdirAll(path, perm)
}

// Open records the call and delegates.
func (c *CountingFs) Open(name string) (afero.File, error) {
	c.record("Open")
	return c.Fs.Open(name)
}

// OpenFile records the call and counts it as a write when it truncates.
func (c *CountingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.record("OpenFile")
	if flag&os.O_TRUNC != 0 {
		c.mu.Lock()
		c.writes++
		c.mu.Unlock()
	}
	return c.Fs.OpenFile(name, flag, perm)
}

// Remove records the call and delegates.
func (c *CountingFs) Remove(name string) error {
	c.record("Remove")
	return c.Fs.Remove(name)
}

// RemoveAll records the call and delegates.
func (c *CountingFs) RemoveAll(path string) error {
	c.record("RemoveAll")
	return c.Fs.RemoveAll(path)
}

// Rename records the call and delegates.
func (c *CountingFs) Rename(oldname, newname string) error {
	c.record("Rename")
	return c.Fs.Rename(oldname, newname)
}

// Stat records the call and delegates.
func (c *CountingFs) Stat(name string) (os.FileInfo, error) {
	c.record("Stat")
	return c.Fs.Stat(name)
}

// Chmod records the call and delegates.
func (c *CountingFs) Chmod(name string, mode os.FileMode) error {
	c.record("Chmod")
	return c.Fs.Chmod(name, mode)
}

// Chown records the call and delegates.
func (c *CountingFs) Chown(name string, uid, gid int) error {
	c.record("Chown")
	return c.Fs.Chown(name, uid, gid)
}

// Chtimes records the call and delegates.
func (c *CountingFs) Chtimes(name string, atime, mtime time.Time) error {
	c.record("Chtimes")
	return c.Fs.Chtimes(name, atime, mtime)
}

// FailingWritesFs hands out files whose Write always fails. It records
// how many of those files were closed.
type FailingWritesFs struct {
	afero.Fs

	mu     sync.Mutex
	closed int
}

// NewFailingWritesFs wraps a fresh MemMapFs.
func NewFailingWritesFs() *FailingWritesFs {
	return &FailingWritesFs{Fs: afero.NewMemMapFs()}
}

// Closed returns how many failing files were closed.
func (f *FailingWritesFs) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// OpenFile wraps truncating opens in a file whose writes fail.
func (f *FailingWritesFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil || flag&os.O_TRUNC == 0 {
		return file, err
	}
	return &failingFile{File: file, owner: f}, nil
}

// failingFile rejects every Write and reports its Close to the owner.
type failingFile struct {
	afero.File
	owner *FailingWritesFs
}

func (f *failingFile) Write(p []byte) (int, error) {
	return 0, ErrInjected
}

func (f *failingFile) Close() error {
	f.owner.mu.Lock()
	f.owner.closed++
	f.owner.mu.Unlock()
	return f.File.Close()
}

// NoDurableWriteFs is a writable filesystem that declares it has no durable-write capability.
type NoDurableWriteFs struct {
	*CountingFs
}

// SupportsDurableWrite always reports false.
func (NoDurableWriteFs) SupportsDurableWrite() bool { return false }
