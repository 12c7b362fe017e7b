package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/blackcoderx/postmaiden/pkg/project"
	"go.uber.org/zap"
)

// RepairReport lists the files Repair removed, per project uuid.
type RepairReport struct {
	Removed map[string][]string `json:"removed"`
}

// Duplicates groups the stored filenames by uuid, keeping only uuids with more than one file.
func (s *Service) Duplicates(ctx context.Context) (map[string][]string, error) {
	filenames, err := s.repo.RetrieveProjectsFilenames(ctx)
	if err != nil {
		return nil, err
	}

	byUUID := make(map[string][]string)
	for _, filename := range filenames {
		item, ok := project.GetListingItemFromFilename(filename)
		if !ok {
			continue
		}
		byUUID[item.UUID] = append(byUUID[item.UUID], filename)
	}
	for uuid, names := range byUUID {
		if len(names) < 2 {
			delete(byUUID, uuid)
		}
	}
	return byUUID, nil
}

// Repair removes the extra files left when a rename was interrupted between
// writing the new file and removing the old one. For each duplicated uuid it
// keeps the most recently written file that still decodes, since a rename
// writes the new name last.
func (s *Service) Repair(ctx context.Context) (RepairReport, error) {
	report := RepairReport{Removed: make(map[string][]string)}

	duplicates, err := s.Duplicates(ctx)
	if err != nil {
		return report, err
	}

	for uuid, filenames := range duplicates {
		keep := s.pickSurvivor(ctx, filenames)
		for _, filename := range filenames {
			if filename == keep {
				continue
			}
			if err := s.repo.RemoveProjectFile(ctx, filename); err != nil {
				return report, fmt.Errorf("failed to repair project %s: %w", uuid, err)
			}
			report.Removed[uuid] = append(report.Removed[uuid], filename)
			s.logger.Warn("removed duplicate project file", zap.String("uuid", uuid), zap.String("filename", filename))
		}
	}
	return report, nil
}

func (s *Service) pickSurvivor(ctx context.Context, filenames []string) string {
	keep := ""
	var keepTime time.Time
	for _, filename := range filenames {
		if _, err := s.repo.RetrieveProjectFile(ctx, filename); err != nil {
			continue
		}
		modTime, err := s.repo.ProjectFileModTime(ctx, filename)
		if err != nil {
			continue
		}
		if keep == "" || modTime.After(keepTime) {
			keep, keepTime = filename, modTime
		}
	}
	if keep == "" {
		return filenames[0]
	}
	return keep
}
