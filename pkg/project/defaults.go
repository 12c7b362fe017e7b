package project

import "github.com/google/uuid"

var defaultRequestSpecHeaders = []Header{
	{Key: "Content-Type", Value: "application/json", IsEnabled: false},
	{Key: "Accept", Value: "application/json", IsEnabled: true},
}

// MakeDefaultRequestSpec returns a new in-memory spec: GET, empty url and body,
// a disabled JSON Content-Type header and an enabled JSON Accept header.
func MakeDefaultRequestSpec() RequestSpec {
	headers := make([]Header, len(defaultRequestSpecHeaders))
	copy(headers, defaultRequestSpecHeaders)

	return RequestSpec{
		UUID:    uuid.NewString(),
		URL:     "",
		Method:  MethodGet,
		Headers: headers,
		Body:    "",
	}
}

// NewProject returns an in-memory project with a fresh uuid, no sections
// and one default spec.
func NewProject(name string) Project {
	return Project{
		UUID:     uuid.NewString(),
		Name:     name,
		Sections: []Section{},
		Specs:    []RequestSpec{MakeDefaultRequestSpec()},
	}
}
