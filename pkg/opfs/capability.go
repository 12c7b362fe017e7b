package opfs

import "github.com/spf13/afero"

// DurableWriter lets a filesystem declare whether it can open files for writing.
// Filesystems that don't implement it are inspected by type instead.
type DurableWriter interface {
	SupportsDurableWrite() bool
}

// Capability describes what the host storage supports. It is resolved once
// at startup and passed around instead of re-inspecting the filesystem.
type Capability struct {
	DurableWrite bool
}

// PersistenceSupported reports whether any persistence operation may be attempted.
func (c Capability) PersistenceSupported() bool {
	return c.DurableWrite
}

// DetectCapability inspects the filesystem's type without calling any of its methods
// that touch storage. A nil or read-only filesystem has no durable-write capability.
func DetectCapability(fs afero.Fs) Capability {
	switch v := fs.(type) {
	case nil:
		return Capability{}
	case DurableWriter:
		return Capability{DurableWrite: v.SupportsDurableWrite()}
	case *afero.ReadOnlyFs:
		return Capability{}
	default:
		return Capability{DurableWrite: true}
	}
}

// IsPersistenceSupported is a shorthand for DetectCapability(fs).PersistenceSupported().
func IsPersistenceSupported(fs afero.Fs) bool {
	return DetectCapability(fs).PersistenceSupported()
}
