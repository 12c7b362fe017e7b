// Package exchange moves whole projects in and out of the store as documents.
//
// Export writes YAML. Import reads YAML or JSON (JSON is valid YAML), checks it
// against a JSON schema, and stores it as a new project.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var schemaLoader = gojsonschema.NewStringLoader(projectSchema)

// Service exports and imports projects of one store.
type Service struct {
	repo   *project.Repository
	logger *zap.Logger
}

// NewService creates an exchange service.
func NewService(repo *project.Repository) *Service {
	return &Service{repo: repo, logger: repo.Logger().Named("exchange")}
}

// Export returns the YAML document of the stored project.
func (s *Service) Export(ctx context.Context, projectUUID string) ([]byte, error) {
	p, err := s.repo.RetrieveProject(ctx, projectUUID)
	if err != nil {
		return nil, err
	}
	return Encode(*p)
}

// Import decodes data and stores it as a new project under a fresh uuid.
func (s *Service) Import(ctx context.Context, data []byte) (project.Project, error) {
	p, err := Decode(data)
	if err != nil {
		return project.Project{}, err
	}

	p.UUID = uuid.NewString()
	if err := s.repo.PersistProject(ctx, p); err != nil {
		return project.Project{}, err
	}

	s.logger.Info("project imported",
		zap.String("uuid", p.UUID),
		zap.String("name", p.Name),
		zap.Int("specs", len(p.Specs)))
	return p, nil
}

// Encode renders p as YAML.
func Encode(p project.Project) ([]byte, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return out, nil
}

// Decode parses and validates a YAML or JSON project document.
// Missing collections become empty, specs without a uuid get one, a spec
// repeating an earlier spec's uuid gets a new one, and headers without
// isEnabled are enabled.
func Decode(data []byte) (project.Project, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return project.Project{}, errs.Wrap(err, errs.CodeInvalid, "document is neither YAML nor JSON")
	}
	if doc == nil {
		return project.Project{}, errs.New(errs.CodeInvalid, "document is empty")
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return project.Project{}, errs.Wrap(err, errs.CodeInvalid, "document cannot be validated")
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return project.Project{}, errs.New(errs.CodeInvalid, "document is not a valid project").
			WithMeta("errors", strings.Join(problems, "; "))
	}

	// The validated tree goes through encoding/json so field names match the stored format.
	raw, err := json.Marshal(doc)
	if err != nil {
		return project.Project{}, errs.Wrap(err, errs.CodeInvalid, "document cannot be converted")
	}
	var decoded importedProject
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return project.Project{}, errs.Wrap(err, errs.CodeInvalid, "document cannot be decoded")
	}
	if err := project.ValidateName(decoded.Name); err != nil {
		return project.Project{}, err
	}
	return decoded.toProject(), nil
}

// importedProject mirrors project.Project with optional header flags.
type importedProject struct {
	Name     string            `json:"name"`
	Sections []project.Section `json:"sections"`
	Specs    []importedSpec    `json:"specs"`
}

type importedSpec struct {
	UUID    string           `json:"uuid"`
	URL     string           `json:"url"`
	Method  project.Method   `json:"method"`
	Headers []importedHeader `json:"headers"`
	Body    string           `json:"body"`
}

type importedHeader struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	IsEnabled *bool  `json:"isEnabled"`
}

func (d importedProject) toProject() project.Project {
	p := project.Project{
		Name:     d.Name,
		Sections: d.Sections,
		Specs:    make([]project.RequestSpec, 0, len(d.Specs)),
	}
	if p.Sections == nil {
		p.Sections = []project.Section{}
	}

	seen := make(map[string]bool, len(d.Specs))
	for _, s := range d.Specs {
		spec := project.RequestSpec{
			UUID:    s.UUID,
			URL:     s.URL,
			Method:  s.Method,
			Headers: make([]project.Header, 0, len(s.Headers)),
			Body:    s.Body,
		}
		if spec.UUID == "" || seen[spec.UUID] {
			spec.UUID = uuid.NewString()
		}
		seen[spec.UUID] = true
		for _, h := range s.Headers {
			enabled := h.IsEnabled == nil || *h.IsEnabled
			spec.Headers = append(spec.Headers, project.Header{Key: h.Key, Value: h.Value, IsEnabled: enabled})
		}
		p.Specs = append(p.Specs, spec)
	}
	return p
}
