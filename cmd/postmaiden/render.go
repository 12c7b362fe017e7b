package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Minimal color palette
var (
	DimColor    = lipgloss.Color("#6c6c6c")
	TextColor   = lipgloss.Color("#e0e0e0")
	AccentColor = lipgloss.Color("#7aa2f7")
	ErrorColor  = lipgloss.Color("#f7768e")
	OkColor     = lipgloss.Color("#9ece6a")
)

var (
	NameStyle   = lipgloss.NewStyle().Foreground(TextColor).Bold(true)
	IDStyle     = lipgloss.NewStyle().Foreground(DimColor)
	AccentStyle = lipgloss.NewStyle().Foreground(AccentColor)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ErrorColor)
	OkStyle     = lipgloss.NewStyle().Foreground(OkColor)

	NoticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 1)
)

// blockingNotice renders a boxed message for states where nothing can be done.
func blockingNotice(title, body string) string {
	return NoticeStyle.Render(ErrorStyle.Bold(true).Render(title) + "\n\n" + body)
}

// describeError appends the metadata of an AppError to its message.
func describeError(err error) string {
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(err.Error())
	if len(appErr.Meta) > 0 {
		keys := make([]string, 0, len(appErr.Meta))
		for k := range appErr.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "\n  %s: %v", k, appErr.Meta[k])
		}
	}
	return sb.String()
}

// renderListing formats listing items one per line, sorted by name.
func renderListing(items []project.ListingItem) string {
	if len(items) == 0 {
		return IDStyle.Render("no projects yet, create one with `postmaiden projects create <name>`")
	}

	sorted := make([]project.ListingItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	lines := make([]string, 0, len(sorted))
	for _, item := range sorted {
		lines = append(lines, IDStyle.Render(item.UUID)+"  "+NameStyle.Render(item.Name))
	}
	return strings.Join(lines, "\n")
}

// renderSpecLine is the one-line summary of a spec.
func renderSpecLine(spec project.RequestSpec) string {
	url := spec.URL
	if url == "" {
		url = IDStyle.Render("(no url)")
	}
	line := IDStyle.Render(spec.UUID) + "  " + AccentStyle.Render(fmt.Sprintf("%-7s", spec.Method)) + " " + url
	if project.IsRequestingToLocalhost(spec.URL) {
		line += IDStyle.Render("  (localhost)")
	}
	return line
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// specDiff is a unified diff of two versions of a spec, as YAML.
func specDiff(before, after project.RequestSpec) string {
	a, err := yaml.Marshal(before)
	if err != nil {
		return ""
	}
	b, err := yaml.Marshal(after)
	if err != nil {
		return ""
	}

	name := "spec/" + before.UUID + ".yaml"
	edits := udiff.Strings(string(a), string(b))
	unified, err := udiff.ToUnified("a/"+name, "b/"+name, string(a), edits, 3)
	if err != nil {
		return fmt.Sprintf("--- a/%s\n+++ b/%s\n(diff generation failed)\n", name, name)
	}
	return unified
}
