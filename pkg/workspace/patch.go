package workspace

import "github.com/blackcoderx/postmaiden/pkg/project"

// Patch is a partial RequestSpec. Nil fields are left untouched.
// Headers, when set, replace the spec's headers wholesale.
type Patch struct {
	UUID    string            `json:"uuid"`
	URL     *string           `json:"url,omitempty"`
	Method  *project.Method   `json:"method,omitempty"`
	Headers *[]project.Header `json:"headers,omitempty"`
	Body    *string           `json:"body,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.URL == nil && p.Method == nil && p.Headers == nil && p.Body == nil
}

// ApplyPatch shallow-merges patch over spec. The uuid never changes.
func ApplyPatch(spec project.RequestSpec, patch Patch) project.RequestSpec {
	if patch.URL != nil {
		spec.URL = *patch.URL
	}
	if patch.Method != nil {
		spec.Method = *patch.Method
	}
	if patch.Headers != nil {
		headers := make([]project.Header, len(*patch.Headers))
		copy(headers, *patch.Headers)
		spec.Headers = headers
	}
	if patch.Body != nil {
		spec.Body = *patch.Body
	}
	return spec
}
