// Package project holds the Project aggregate and the shared repository
// every feature funnels its project reads and writes through.
//
// Projects are stored one file per project in the "projects" sub-directory,
// and the filename itself is the listing index: "<uuid>_<name>.json".
package project

// Project is a named container of request specs.
type Project struct {
	UUID     string        `json:"uuid" yaml:"uuid"`
	Name     string        `json:"name" yaml:"name"`
	Sections []Section     `json:"sections" yaml:"sections"`
	Specs    []RequestSpec `json:"specs" yaml:"specs"`
}

// Section is reserved for grouping specs; nothing writes into it yet but it
// survives every read-modify-write cycle.
type Section struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

// RequestSpec is a saved description of one HTTP request.
type RequestSpec struct {
	UUID    string   `json:"uuid" yaml:"uuid"`
	URL     string   `json:"url" yaml:"url"`
	Method  Method   `json:"method" yaml:"method"`
	Headers []Header `json:"headers" yaml:"headers"`
	Body    string   `json:"body" yaml:"body"`
}

// Header is a request header that can be toggled off without being deleted.
type Header struct {
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value" yaml:"value"`
	IsEnabled bool   `json:"isEnabled" yaml:"isEnabled"`
}

// ListingItem is the lightweight projection of a Project decoded from its filename.
type ListingItem struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

// Item returns the listing projection of p.
func (p Project) Item() ListingItem {
	return ListingItem{UUID: p.UUID, Name: p.Name}
}

// FindSpec returns the spec with the given uuid.
func (p Project) FindSpec(uuid string) (RequestSpec, bool) {
	for _, spec := range p.Specs {
		if spec.UUID == uuid {
			return spec, true
		}
	}
	return RequestSpec{}, false
}

// EnabledHeaders returns the headers that take part in an executed request.
func (s RequestSpec) EnabledHeaders() []Header {
	enabled := make([]Header, 0, len(s.Headers))
	for _, h := range s.Headers {
		if h.IsEnabled {
			enabled = append(enabled, h)
		}
	}
	return enabled
}
