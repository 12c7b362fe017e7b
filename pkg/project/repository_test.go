package project

import (
	"context"
	"testing"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/opfs"
	"github.com/blackcoderx/postmaiden/pkg/opfs/opfstest"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRepository(t *testing.T, fs afero.Fs) (*Repository, *observer.ObservedLogs) {
	t.Helper()
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	root := opfs.NewRoot(fs, logger)
	return NewRepository(root, opfs.DetectCapability(fs), logger), logs
}

func seedFile(t *testing.T, fs afero.Fs, filename, content string) {
	t.Helper()
	path := opfs.DirPath(ProjectsSubdirectory) + "/" + filename
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to seed %s: %v", filename, err)
	}
}

func TestRepository_PersistAndRetrieve(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, nil)

	p := NewProject("Umbrella Corp API")
	p.Specs[0].URL = "https://re.capcom.com/stars-members"
	if err := repo.PersistProject(ctx, p); err != nil {
		t.Fatalf("PersistProject: %v", err)
	}

	filenames, err := repo.RetrieveProjectsFilenames(ctx)
	if err != nil {
		t.Fatalf("RetrieveProjectsFilenames: %v", err)
	}
	if diff := cmp.Diff([]string{p.UUID + "_Umbrella Corp API.json"}, filenames); diff != "" {
		t.Errorf("filenames mismatch (-want +got):\n%s", diff)
	}

	got, err := repo.RetrieveProject(ctx, p.UUID)
	if err != nil {
		t.Fatalf("RetrieveProject: %v", err)
	}
	if diff := cmp.Diff(p, *got); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_RetrieveProject_NotFound(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	repo, _ := newTestRepository(t, fs)

	_, err := repo.RetrieveProject(ctx, testUUID)
	if !errs.IsCode(err, errs.CodeNotFound) {
		t.Errorf("missing project error = %v, want code %q", err, errs.CodeNotFound)
	}

	seedFile(t, fs, testUUID+"_Empty.json", "")
	_, err = repo.RetrieveProject(ctx, testUUID)
	if !errs.IsCode(err, errs.CodeNotFound) {
		t.Errorf("empty project error = %v, want code %q", err, errs.CodeNotFound)
	}
}

func TestRepository_RetrieveProject_JSONNull(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo, _ := newTestRepository(t, fs)
	seedFile(t, fs, testUUID+"_Nothing.json", "null")

	_, err := repo.RetrieveProject(context.Background(), testUUID)
	if !errs.IsCode(err, errs.CodeNotFound) {
		t.Errorf("null project error = %v, want code %q", err, errs.CodeNotFound)
	}
}

func TestRepository_RetrieveProject_Corrupted(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo, _ := newTestRepository(t, fs)
	seedFile(t, fs, testUUID+"_Broken.json", `{"uuid": "`)

	_, err := repo.RetrieveProject(context.Background(), testUUID)
	if !errs.IsCode(err, errs.CodeParse) {
		t.Errorf("error = %v, want code %q", err, errs.CodeParse)
	}
}

func TestRepository_RemoveProject(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	repo, _ := newTestRepository(t, fs)

	p := NewProject("To Remove")
	if err := repo.PersistProject(ctx, p); err != nil {
		t.Fatalf("PersistProject: %v", err)
	}

	removed, err := repo.RemoveProject(ctx, p.Item())
	if err != nil {
		t.Fatalf("RemoveProject: %v", err)
	}
	if removed.UUID != p.UUID {
		t.Errorf("removed uuid = %q, want %q", removed.UUID, p.UUID)
	}

	filenames, err := repo.RetrieveProjectsFilenames(ctx)
	if err != nil {
		t.Fatalf("RetrieveProjectsFilenames: %v", err)
	}
	if len(filenames) != 0 {
		t.Errorf("filenames after remove = %v, want none", filenames)
	}

	_, err = repo.RemoveProject(ctx, p.Item())
	if !errs.IsCode(err, errs.CodeNotFound) {
		t.Errorf("second remove error = %v, want code %q", err, errs.CodeNotFound)
	}
}

func TestRepository_RemoveProject_ByUUIDOnly(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, nil)

	p := NewProject("Resolved By UUID")
	if err := repo.PersistProject(ctx, p); err != nil {
		t.Fatalf("PersistProject: %v", err)
	}
	if _, err := repo.RemoveProject(ctx, ListingItem{UUID: p.UUID}); err != nil {
		t.Fatalf("RemoveProject: %v", err)
	}
	if _, err := repo.RetrieveProject(ctx, p.UUID); !errs.IsCode(err, errs.CodeNotFound) {
		t.Errorf("retrieve after remove error = %v, want code %q", err, errs.CodeNotFound)
	}
}

func TestRepository_DecodeFilenamesLogsInvalid(t *testing.T) {
	repo, logs := newTestRepository(t, nil)

	items := repo.DecodeFilenames([]string{testUUID + "_Good.json", "garbage.bin"})
	if diff := cmp.Diff([]ListingItem{{UUID: testUUID, Name: "Good"}}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	warnings := logs.FilterMessage("invalid project filename (corrupted data?)").All()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if got := warnings[0].ContextMap()["filename"]; got != "garbage.bin" {
		t.Errorf("warning filename = %v, want garbage.bin", got)
	}
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	fs := opfstest.NewCountingFs(nil)
	repo, _ := newTestRepository(t, fs)

	p := NewProject("Update Me")
	if err := repo.PersistProject(ctx, p); err != nil {
		t.Fatalf("PersistProject: %v", err)
	}
	fs.Reset()

	updated, err := repo.Update(ctx, p.UUID, func(existing Project) (Project, error) {
		existing.Specs = append(existing.Specs, MakeDefaultRequestSpec())
		return existing, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.Specs) != 2 {
		t.Errorf("len(Specs) = %d, want 2", len(updated.Specs))
	}
	if fs.Writes() != 1 {
		t.Errorf("writes = %d, want 1", fs.Writes())
	}

	failing := errs.New(errs.CodeInvalid, "rejected")
	fs.Reset()
	if _, err := repo.Update(ctx, p.UUID, func(Project) (Project, error) { return Project{}, failing }); err != failing {
		t.Errorf("Update error = %v, want the transform's error", err)
	}
	if fs.Writes() != 0 {
		t.Errorf("writes after failed transform = %d, want 0", fs.Writes())
	}
}

func TestRepository_Unsupported(t *testing.T) {
	ctx := context.Background()
	counting := opfstest.NewCountingFs(nil)
	fs := opfstest.NoDurableWriteFs{CountingFs: counting}
	repo, _ := newTestRepository(t, fs)

	if _, err := repo.RetrieveProjectsFilenames(ctx); !errs.IsCode(err, errs.CodeUnsupported) {
		t.Errorf("RetrieveProjectsFilenames error = %v, want code %q", err, errs.CodeUnsupported)
	}
	if err := repo.PersistProject(ctx, NewProject("x")); !errs.IsCode(err, errs.CodeUnsupported) {
		t.Errorf("PersistProject error = %v, want code %q", err, errs.CodeUnsupported)
	}
	if _, err := repo.RetrieveProject(ctx, testUUID); !errs.IsCode(err, errs.CodeUnsupported) {
		t.Errorf("RetrieveProject error = %v, want code %q", err, errs.CodeUnsupported)
	}
	if _, err := repo.RemoveProject(ctx, ListingItem{UUID: testUUID, Name: "x"}); !errs.IsCode(err, errs.CodeUnsupported) {
		t.Errorf("RemoveProject error = %v, want code %q", err, errs.CodeUnsupported)
	}
	if counting.Total() != 0 {
		t.Errorf("storage calls = %d, want 0", counting.Total())
	}
}
