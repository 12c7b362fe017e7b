package project

import (
	"context"
	"fmt"
	"time"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/opfs"
	"go.uber.org/zap"
)

// Repository reads and writes whole Project records in the projects sub-directory.
// Every feature goes through it so there is exactly one filename logic.
type Repository struct {
	root       *opfs.Root
	capability opfs.Capability
	logger     *zap.Logger
}

// NewRepository creates a repository over root. The capability is resolved
// once by the caller; when it reports no durable write every operation fails
// with CodeUnsupported without touching storage.
func NewRepository(root *opfs.Root, capability opfs.Capability, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{root: root, capability: capability, logger: logger}
}

// Logger returns the repository's logger, for services layered on top of it.
func (r *Repository) Logger() *zap.Logger {
	return r.logger
}

func (r *Repository) guard() error {
	if !r.capability.PersistenceSupported() {
		return errs.New(errs.CodeUnsupported, "storage has no durable-write capability")
	}
	return nil
}

// RetrieveProjectsFilenames returns every raw filename in the projects sub-directory.
func (r *Repository) RetrieveProjectsFilenames(ctx context.Context) ([]string, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	dir, err := opfs.NewDirAdapter(ctx, r.root, ProjectsSubdirectory)
	if err != nil {
		return nil, err
	}
	return dir.RetrieveFilenames(ctx)
}

// DecodeFilenames turns filenames into listing items, skipping (and logging)
// the ones that don't follow the project filename encoding.
func (r *Repository) DecodeFilenames(filenames []string) []ListingItem {
	items := make([]ListingItem, 0, len(filenames))
	for _, filename := range filenames {
		item, ok := GetListingItemFromFilename(filename)
		if !ok {
			r.logger.Warn("invalid project filename (corrupted data?)", zap.String("filename", filename))
			continue
		}
		items = append(items, item)
	}
	return items
}

// RetrieveProject loads the project whose filename decodes to uuid.
// If a rename was interrupted and two files share the uuid, the first one listed wins.
func (r *Repository) RetrieveProject(ctx context.Context, uuid string) (*Project, error) {
	filename, err := r.retrieveProjectFilenameByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	content, err := r.RetrieveProjectFile(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project %s: %w", uuid, err)
	}
	return content, nil
}

// RetrieveProjectFile loads the project stored under an exact filename.
// An empty file fails with CodeNotFound.
func (r *Repository) RetrieveProjectFile(ctx context.Context, filename string) (*Project, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	file, err := opfs.NewFileAdapter[Project](ctx, r.root, opfs.FileOptions{
		Filename: filename,
		Subdir:   ProjectsSubdirectory,
	})
	if err != nil {
		return nil, err
	}

	content, err := file.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, errs.New(errs.CodeNotFound, "project file content not found").WithMeta("filename", filename)
	}
	return content, nil
}

// PersistProject writes the whole project under the filename computed from
// its current uuid and name. It does not look for a differently-named file
// with the same uuid: renaming callers must remove the stale one themselves.
func (r *Repository) PersistProject(ctx context.Context, p Project) error {
	if err := r.guard(); err != nil {
		return err
	}
	if p.UUID == "" {
		return errs.New(errs.CodeInvalid, "project uuid cannot be empty")
	}

	file, err := opfs.NewFileAdapter[Project](ctx, r.root, opfs.FileOptions{
		Filename: GetProjectFilename(p.Item()),
		Subdir:   ProjectsSubdirectory,
	})
	if err != nil {
		return err
	}

	if err := file.Persist(ctx, p); err != nil {
		return fmt.Errorf("failed to persist project %s: %w", p.UUID, err)
	}
	return nil
}

// RemoveProject permanently deletes a project file. With a name, the file is
// addressed directly by uuid+name, which disambiguates the two files left by
// an interrupted rename. Without a name it is resolved by uuid.
func (r *Repository) RemoveProject(ctx context.Context, item ListingItem) (RemovedProject, error) {
	if err := r.guard(); err != nil {
		return RemovedProject{}, err
	}
	if item.UUID == "" {
		return RemovedProject{}, errs.New(errs.CodeInvalid, "project uuid cannot be empty")
	}

	filename := GetProjectFilename(item)
	if item.Name == "" {
		resolved, err := r.retrieveProjectFilenameByUUID(ctx, item.UUID)
		if err != nil {
			return RemovedProject{}, err
		}
		filename = resolved
	}

	if err := r.RemoveProjectFile(ctx, filename); err != nil {
		return RemovedProject{}, fmt.Errorf("failed to remove project %s: %w", item.UUID, err)
	}

	r.logger.Debug("project removed", zap.String("uuid", item.UUID), zap.String("filename", filename))
	return RemovedProject{UUID: item.UUID}, nil
}

// RemoveProjectFile deletes the project file with an exact filename.
func (r *Repository) RemoveProjectFile(ctx context.Context, filename string) error {
	if err := r.guard(); err != nil {
		return err
	}
	dir, err := opfs.NewDirAdapter(ctx, r.root, ProjectsSubdirectory)
	if err != nil {
		return err
	}
	return dir.RemoveByFilename(ctx, filename)
}

// ProjectFileModTime returns when the project file with an exact filename was last written.
func (r *Repository) ProjectFileModTime(ctx context.Context, filename string) (time.Time, error) {
	if err := r.guard(); err != nil {
		return time.Time{}, err
	}
	dir, err := opfs.NewDirAdapter(ctx, r.root, ProjectsSubdirectory)
	if err != nil {
		return time.Time{}, err
	}
	return dir.ModTime(ctx, filename)
}

// RemovedProject identifies a project that was removed.
type RemovedProject struct {
	UUID string `json:"uuid"`
}

// Transform is a pure change applied to a project during Update.
type Transform func(Project) (Project, error)

// Update reads the project, applies fn and writes the result back.
//
// It is an optimistic read-modify-write over the whole file: two overlapping
// Updates of the same project both read the old record and the last write wins.
// Callers rely on the single active session to avoid that.
func (r *Repository) Update(ctx context.Context, uuid string, fn Transform) (Project, error) {
	existing, err := r.RetrieveProject(ctx, uuid)
	if err != nil {
		return Project{}, err
	}

	updated, err := fn(*existing)
	if err != nil {
		return Project{}, err
	}

	if err := r.PersistProject(ctx, updated); err != nil {
		return Project{}, err
	}
	return updated, nil
}

func (r *Repository) retrieveProjectFilenameByUUID(ctx context.Context, uuid string) (string, error) {
	filenames, err := r.RetrieveProjectsFilenames(ctx)
	if err != nil {
		return "", err
	}

	for _, filename := range filenames {
		item, ok := GetListingItemFromFilename(filename)
		if ok && item.UUID == uuid {
			return filename, nil
		}
	}
	return "", errs.New(errs.CodeNotFound, "project filename not found").WithMeta("uuid", uuid)
}
