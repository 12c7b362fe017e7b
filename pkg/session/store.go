// Package session keeps a single process in charge of writes.
//
// The active session's uuid is stored as the raw content of one file at the
// top of the sandbox. Each process remembers the uuid it wrote and polls the
// file: when the stored value changes, another process has claimed the store
// and this one must stop writing. The check is advisory, not a lock.
package session

import (
	"context"
	"fmt"
	"regexp"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/opfs"
	"github.com/google/uuid"
)

// Filename is the file holding the active session uuid.
const Filename = "client-session.txt"

// canonicalUUID is the 8-4-4-4-12 hex form. uuid.Parse alone also accepts
// the braced, urn and dashless forms.
var canonicalUUID = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsValidUUID reports whether id is a well-formed uuid in canonical form.
func IsValidUUID(id string) bool {
	if !canonicalUUID.MatchString(id) {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Store reads and writes the active session uuid.
type Store struct {
	registry *opfs.Registry
}

// NewStore creates a session store. The file adapter comes from the registry
// so every Store over the same registry shares one handle.
func NewStore(registry *opfs.Registry) *Store {
	return &Store{registry: registry}
}

func (s *Store) file(ctx context.Context) (*opfs.FileAdapter[string], error) {
	return opfs.Singleton[string](ctx, s.registry, opfs.FileOptions{Filename: Filename},
		opfs.WithCodec[string](opfs.TextCodec{}))
}

// PersistClientSessionUUID stores id as the active session.
func (s *Store) PersistClientSessionUUID(ctx context.Context, id string) error {
	if !IsValidUUID(id) {
		return errs.New(errs.CodeInvalid, "client session uuid is not a valid uuid").WithMeta("uuid", id)
	}

	file, err := s.file(ctx)
	if err != nil {
		return err
	}
	if err := file.Persist(ctx, id); err != nil {
		return fmt.Errorf("failed to persist client session: %w", err)
	}
	return nil
}

// RetrieveClientSessionUUID returns the active session uuid, or "" when none
// is stored or the stored value isn't a valid uuid.
func (s *Store) RetrieveClientSessionUUID(ctx context.Context) (string, error) {
	file, err := s.file(ctx)
	if err != nil {
		return "", err
	}

	content, err := file.Retrieve(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve client session: %w", err)
	}
	if content == nil {
		return "", nil
	}
	if !IsValidUUID(*content) {
		return "", nil
	}
	return *content, nil
}
