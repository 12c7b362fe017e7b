package runtime

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// varPattern matches {{VAR_NAME}} or {{env:VAR_NAME}}
var varPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// LoadEnvironment reads a flat YAML map of variables. Values may themselves
// reference process environment variables with {{env:NAME}}.
func LoadEnvironment(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	env := map[string]string{}
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, errs.Wrap(err, errs.CodeParse, "failed to parse environment YAML").WithMeta("path", path)
	}

	for key, value := range env {
		env[key] = resolveEnvRefs(value)
	}
	return env, nil
}

// SubstituteVariables replaces {{VAR}} with env values and {{env:VAR}} with
// process environment values. Unknown placeholders are kept as written.
func SubstituteVariables(text string, env map[string]string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderName(match)

		if sysVar, ok := strings.CutPrefix(name, "env:"); ok {
			if val := os.Getenv(sysVar); val != "" {
				return val
			}
			return match
		}

		if val, ok := env[name]; ok {
			return val
		}
		return match
	})
}

// resolveEnvRefs resolves only the {{env:VAR}} references in text.
func resolveEnvRefs(text string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		if sysVar, ok := strings.CutPrefix(placeholderName(match), "env:"); ok {
			if val := os.Getenv(sysVar); val != "" {
				return val
			}
		}
		return match
	})
}

func placeholderName(match string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))
}
