package main

import (
	"fmt"
	"strings"

	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"github.com/blackcoderx/postmaiden/pkg/workspace"
	"github.com/spf13/cobra"
)

var (
	patchURL     string
	patchMethod  string
	patchBody    string
	patchHeaders []string
	patchNoHead  bool
)

func init() {
	specsPatchCmd.Flags().StringVar(&patchURL, "url", "", "new url")
	specsPatchCmd.Flags().StringVar(&patchMethod, "method", "", "new method ("+methodList()+")")
	specsPatchCmd.Flags().StringVar(&patchBody, "body", "", "new body")
	specsPatchCmd.Flags().StringArrayVar(&patchHeaders, "header", nil, "header as key=value, or key=value:off to store it disabled (replaces all headers)")
	specsPatchCmd.Flags().BoolVar(&patchNoHead, "clear-headers", false, "remove every header")

	specsCmd.AddCommand(specsAddCmd, specsRemoveCmd, specsPatchCmd, specsMethodsCmd)
	rootCmd.AddCommand(specsCmd)
}

var specsCmd = &cobra.Command{
	Use:     "specs",
	Aliases: []string{"s"},
	Short:   "Edit the request specs of a project",
}

var specsAddCmd = &cobra.Command{
	Use:   "add <project-uuid>",
	Short: "Append a default request spec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		spec, err := a.Workspace.CreateRequestSpec(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("added ")+renderSpecLine(spec))
		return nil
	},
}

var specsRemoveCmd = &cobra.Command{
	Use:   "remove <project-uuid> <spec-uuid>",
	Short: "Remove a request spec",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.Workspace.RemoveRequestSpec(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("removed ")+IDStyle.Render(removed.SpecUUID))
		return nil
	},
}

var specsPatchCmd = &cobra.Command{
	Use:   "patch <project-uuid> <spec-uuid>",
	Short: "Change fields of a request spec and print the diff",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd, args[1])
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			return errs.New(errs.CodeInvalid, "nothing to patch, pass at least one of --url --method --body --header --clear-headers")
		}

		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Workspace.RetrieveProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		before, _ := p.FindSpec(args[1])

		after, err := a.Workspace.PatchRequestSpec(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), specDiff(before, after))
		return nil
	},
}

var specsMethodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "Explain the HTTP methods a spec can use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range project.EditableMethods {
			body := ""
			if !project.CanMethodHaveBody(m) {
				body = IDStyle.Render(" (no body)")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s\n", AccentStyle.Render(fmt.Sprintf("%-7s", m)), project.MethodExplanation(m), body)
		}
		return nil
	},
}

// patchFromFlags builds a Patch from the flags the user actually set.
func patchFromFlags(cmd *cobra.Command, specUUID string) (workspace.Patch, error) {
	patch := workspace.Patch{UUID: specUUID}
	flags := cmd.Flags()

	if flags.Changed("url") {
		url := patchURL
		patch.URL = &url
	}
	if flags.Changed("method") {
		method, ok := project.ParseMethod(patchMethod)
		if !ok {
			return patch, errs.Newf(errs.CodeInvalid, "unknown method %q, use one of %s", patchMethod, methodList())
		}
		patch.Method = &method
	}
	if flags.Changed("body") {
		body := patchBody
		patch.Body = &body
	}
	if flags.Changed("header") || patchNoHead {
		headers := make([]project.Header, 0, len(patchHeaders))
		for _, raw := range patchHeaders {
			h, err := parseHeaderFlag(raw)
			if err != nil {
				return patch, err
			}
			headers = append(headers, h)
		}
		patch.Headers = &headers
	}
	return patch, nil
}

// parseHeaderFlag parses "key=value" or "key=value:off".
func parseHeaderFlag(raw string) (project.Header, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return project.Header{}, errs.Newf(errs.CodeInvalid, "header %q must look like key=value", raw)
	}

	enabled := true
	if v, found := strings.CutSuffix(value, ":off"); found {
		value, enabled = v, false
	}
	return project.Header{Key: key, Value: value, IsEnabled: enabled}, nil
}

func methodList() string {
	names := make([]string, 0, len(project.EditableMethods))
	for _, m := range project.EditableMethods {
		names = append(names, string(m))
	}
	return strings.Join(names, "|")
}
