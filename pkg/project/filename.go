package project

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/blackcoderx/postmaiden/pkg/errs"
)

// ProjectsSubdirectory is the sandbox sub-directory holding one file per project.
const ProjectsSubdirectory = "projects"

var (
	projectFilenamePattern = regexp.MustCompile(`^([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})_(.*)\.json$`)
	trailingJSONPattern    = regexp.MustCompile(`(?i)\.json$`)
)

// SanitizeName returns the form of name that is encoded into filenames.
// It trims whitespace, strips a trailing ".json", removes double quotes and
// turns "/" into spaces.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = trailingJSONPattern.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, `"`, "")
	return strings.ReplaceAll(name, "/", " ")
}

// ValidateName rejects names that cannot be stored: blank ones, and ones with
// control characters, which the filename encoding cannot decode back.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.New(errs.CodeInvalid, "project name cannot be empty")
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return errs.New(errs.CodeInvalid, "project name cannot contain control characters").WithMeta("name", name)
	}
	return nil
}

// GetProjectFilename returns what the current filename of a project should be.
//
// No side effects here, there's no query on the file system.
func GetProjectFilename(item ListingItem) string {
	return item.UUID + "_" + SanitizeName(item.Name) + ".json"
}

// GetListingItemFromFilename decodes a project filename back into its listing item.
// It reports false for filenames that don't follow the encoding (corrupted or foreign files).
//
// No side effects here, there's no query on the file system.
func GetListingItemFromFilename(filename string) (ListingItem, bool) {
	m := projectFilenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return ListingItem{}, false
	}
	return ListingItem{UUID: m[1], Name: m[2]}, true
}
