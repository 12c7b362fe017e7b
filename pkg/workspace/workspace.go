// Package workspace edits the request specs nested inside a project.
//
// Every operation is a full read-modify-write of the project file through
// project.Repository.Update; the changes themselves are pure functions over
// a Project so they can be tested without storage.
package workspace

import (
	"context"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"go.uber.org/zap"
)

// Service implements request-spec CRUD for one store.
type Service struct {
	repo   *project.Repository
	logger *zap.Logger
}

// NewService creates a workspace service.
func NewService(repo *project.Repository) *Service {
	return &Service{repo: repo, logger: repo.Logger().Named("workspace")}
}

// RemovedRequestSpec identifies a spec that was removed.
type RemovedRequestSpec struct {
	SpecUUID string `json:"specUuid"`
}

// RetrieveProject loads the full project so its specs can be shown.
func (s *Service) RetrieveProject(ctx context.Context, projectUUID string) (project.Project, error) {
	p, err := s.repo.RetrieveProject(ctx, projectUUID)
	if err != nil {
		return project.Project{}, err
	}
	return *p, nil
}

// CreateRequestSpec appends a default spec to the end of the project's specs.
func (s *Service) CreateRequestSpec(ctx context.Context, projectUUID string) (project.RequestSpec, error) {
	spec := project.MakeDefaultRequestSpec()
	if _, err := s.repo.Update(ctx, projectUUID, AppendSpec(spec)); err != nil {
		return project.RequestSpec{}, err
	}

	s.logger.Debug("request spec created", zap.String("project", projectUUID), zap.String("spec", spec.UUID))
	return spec, nil
}

// RemoveRequestSpec drops the spec with the given uuid. Removing a spec that
// isn't there still rewrites the project and is not an error.
func (s *Service) RemoveRequestSpec(ctx context.Context, projectUUID, specUUID string) (RemovedRequestSpec, error) {
	if _, err := s.repo.Update(ctx, projectUUID, RemoveSpec(specUUID)); err != nil {
		return RemovedRequestSpec{}, err
	}

	s.logger.Debug("request spec removed", zap.String("project", projectUUID), zap.String("spec", specUUID))
	return RemovedRequestSpec{SpecUUID: specUUID}, nil
}

// PatchRequestSpec merges patch over the spec it names and returns the result.
func (s *Service) PatchRequestSpec(ctx context.Context, projectUUID string, patch Patch) (project.RequestSpec, error) {
	updated, err := s.repo.Update(ctx, projectUUID, PatchSpec(patch))
	if err != nil {
		return project.RequestSpec{}, err
	}

	spec, _ := updated.FindSpec(patch.UUID)
	return spec, nil
}

// AppendSpec returns a transform adding spec at the end of the project's specs.
func AppendSpec(spec project.RequestSpec) project.Transform {
	return func(p project.Project) (project.Project, error) {
		specs := make([]project.RequestSpec, 0, len(p.Specs)+1)
		specs = append(specs, p.Specs...)
		p.Specs = append(specs, spec)
		return p, nil
	}
}

// RemoveSpec returns a transform filtering out the spec with specUUID, keeping order.
func RemoveSpec(specUUID string) project.Transform {
	return func(p project.Project) (project.Project, error) {
		specs := make([]project.RequestSpec, 0, len(p.Specs))
		for _, spec := range p.Specs {
			if spec.UUID != specUUID {
				specs = append(specs, spec)
			}
		}
		p.Specs = specs
		return p, nil
	}
}

// PatchSpec returns a transform applying patch to the spec whose uuid it names.
// It fails with CodeNotFound when no spec matches.
func PatchSpec(patch Patch) project.Transform {
	return func(p project.Project) (project.Project, error) {
		if patch.UUID == "" {
			return p, errs.New(errs.CodeInvalid, "request spec uuid cannot be empty for patch")
		}

		specs := make([]project.RequestSpec, len(p.Specs))
		copy(specs, p.Specs)
		for i := range specs {
			if specs[i].UUID == patch.UUID {
				specs[i] = ApplyPatch(specs[i], patch)
				p.Specs = specs
				return p, nil
			}
		}
		return p, errs.New(errs.CodeNotFound, "request spec not found").
			WithMeta("project", p.UUID).
			WithMeta("spec", patch.UUID)
	}
}
