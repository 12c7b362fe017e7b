// Package listing manages the set of projects as lightweight {uuid, name} items.
//
// The listing never reads project content: each filename in the projects
// sub-directory is the whole listing item. For the specs inside a project,
// see package workspace.
package listing

import (
	"context"
	"fmt"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"go.uber.org/zap"
)

// Listing is the list of projects known to the store.
type Listing struct {
	Items []project.ListingItem `json:"items"`
}

// Service implements the project listing on top of the project repository.
type Service struct {
	repo   *project.Repository
	logger *zap.Logger
}

// NewService creates a listing service.
func NewService(repo *project.Repository) *Service {
	return &Service{repo: repo, logger: repo.Logger().Named("listing")}
}

// RetrieveProjectsListing builds the listing from stored filenames alone.
// Filenames that don't decode are skipped with a warning instead of failing
// the whole listing.
func (s *Service) RetrieveProjectsListing(ctx context.Context) (Listing, error) {
	filenames, err := s.repo.RetrieveProjectsFilenames(ctx)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Items: s.repo.DecodeFilenames(filenames)}, nil
}

// PersistNewProjectListingItem creates a project with one default spec.
func (s *Service) PersistNewProjectListingItem(ctx context.Context, name string) (project.ListingItem, error) {
	if err := project.ValidateName(name); err != nil {
		return project.ListingItem{}, err
	}

	p := project.NewProject(name)
	if err := s.repo.PersistProject(ctx, p); err != nil {
		return project.ListingItem{}, err
	}

	s.logger.Info("project created", zap.String("uuid", p.UUID), zap.String("name", p.Name))
	return p.Item(), nil
}

// RemoveProjectListingItem permanently deletes the project file addressed by item.
func (s *Service) RemoveProjectListingItem(ctx context.Context, item project.ListingItem) (project.RemovedProject, error) {
	return s.repo.RemoveProject(ctx, item)
}

// UpdateProjectListingItem renames a project: it writes a copy under the new
// filename, then removes the old one. Sections and specs are carried over.
//
// The two steps are not atomic. If the removal doesn't happen, two files share
// the uuid until Repair is run.
func (s *Service) UpdateProjectListingItem(ctx context.Context, updating project.ListingItem) (project.ListingItem, error) {
	if updating.UUID == "" {
		return project.ListingItem{}, errs.New(errs.CodeInvalid, "project uuid cannot be empty for update")
	}
	if err := project.ValidateName(updating.Name); err != nil {
		return project.ListingItem{}, err
	}

	existing, err := s.repo.RetrieveProject(ctx, updating.UUID)
	if err != nil {
		if errs.IsCode(err, errs.CodeNotFound) {
			return project.ListingItem{}, errs.Wrap(err, errs.CodeStaleData, "project being updated might be stale")
		}
		return project.ListingItem{}, err
	}

	updated := *existing
	updated.Name = updating.Name

	oldFilename := project.GetProjectFilename(existing.Item())
	if project.GetProjectFilename(updated.Item()) == oldFilename {
		// Same file: a plain overwrite, nothing to remove.
		if err := s.repo.PersistProject(ctx, updated); err != nil {
			return project.ListingItem{}, err
		}
		return updated.Item(), nil
	}

	if err := s.repo.PersistProject(ctx, updated); err != nil {
		return project.ListingItem{}, err
	}
	if _, err := s.repo.RemoveProject(ctx, existing.Item()); err != nil {
		return project.ListingItem{}, fmt.Errorf("failed to remove the previous name of project %s: %w", existing.UUID, err)
	}

	s.logger.Info("project renamed",
		zap.String("uuid", updated.UUID),
		zap.String("from", existing.Name),
		zap.String("to", updated.Name))
	return updated.Item(), nil
}
