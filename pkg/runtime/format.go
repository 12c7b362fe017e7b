package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blackcoderx/postmaiden/pkg/project"
)

// Markdown renders the state as a markdown document for terminal display.
// JSON bodies are pretty-printed in a fenced block.
func (s RuntimeState) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s %s\n\n", s.Request.Method, s.Request.URL)

	switch s.Step {
	case StepError:
		fmt.Fprintf(&sb, "**Error:** %s\n", s.ErrorMessage)
		return sb.String()
	case StepIdle, StepRunning:
		fmt.Fprintf(&sb, "_%s_\n", s.Step)
		return sb.String()
	}

	fmt.Fprintf(&sb, "**Status:** %d %s (%dms)\n\n", s.Response.Status,
		project.StatusText(s.Response.Status), s.Duration().Milliseconds())

	if len(s.Response.Headers) > 0 {
		sb.WriteString("| Header | Value |\n|---|---|\n")
		for _, h := range s.Response.Headers {
			fmt.Fprintf(&sb, "| %s | %s |\n", h.Key, strings.ReplaceAll(h.Value, "|", `\|`))
		}
		sb.WriteString("\n")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(s.Response.Body), "", "  "); err == nil {
		sb.WriteString("```json\n")
		sb.WriteString(pretty.String())
		sb.WriteString("\n```\n")
	} else if s.Response.Body != "" {
		sb.WriteString("```\n")
		sb.WriteString(s.Response.Body)
		sb.WriteString("\n```\n")
	}
	return sb.String()
}
