package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/runtime"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runEnvFile string
	runCopy    bool
)

func init() {
	runCmd.Flags().StringVarP(&runEnvFile, "env", "e", "", "YAML file of variables for {{VAR}} substitution")
	runCmd.Flags().BoolVarP(&runCopy, "copy", "c", false, "copy the response body to the clipboard")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <project-uuid> <spec-uuid>",
	Short: "Send a request spec and show the response",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Workspace.RetrieveProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		spec, ok := p.FindSpec(args[1])
		if !ok {
			return errs.New(errs.CodeNotFound, "request spec not found").WithMeta("spec", args[1])
		}

		env := map[string]string{}
		if runEnvFile != "" {
			env, err = runtime.LoadEnvironment(afero.NewOsFs(), runEnvFile)
			if err != nil {
				return fmt.Errorf("failed to load environment '%s': %w", runEnvFile, err)
			}
		}

		state := a.Executor.Run(cmd.Context(), spec, env)
		fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(state.Markdown()))

		if runCopy && state.Step != runtime.StepError {
			if err := clipboard.WriteAll(state.Response.Body); err != nil {
				log.Warn("failed to copy response to clipboard", zap.Error(err))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), IDStyle.Render("response body copied to clipboard"))
			}
		}

		if state.Step == runtime.StepError {
			return errs.New(errs.CodeInternal, "request did not reach the server").WithMeta("reason", state.ErrorMessage)
		}
		return nil
	},
}
