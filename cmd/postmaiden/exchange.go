package main

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <project-uuid>",
	Short: "Export a project as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		doc, err := a.Exchange.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = cmd.OutOrStdout().Write(doc)
			return err
		}
		if err := afero.WriteFile(afero.NewOsFs(), exportOutput, doc, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("exported to ")+exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a YAML or JSON project as a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = afero.ReadFile(afero.NewOsFs(), args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Exchange.Import(cmd.Context(), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s  %s (%d specs)\n",
			OkStyle.Render("imported "), IDStyle.Render(p.UUID), NameStyle.Render(p.Name), len(p.Specs))
		return nil
	},
}
