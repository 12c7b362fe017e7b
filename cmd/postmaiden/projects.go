package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackcoderx/postmaiden/pkg/opfs"
	"github.com/blackcoderx/postmaiden/pkg/project"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	projectsCmd.AddCommand(
		projectsListCmd,
		projectsCreateCmd,
		projectsRenameCmd,
		projectsRemoveCmd,
		projectsShowCmd,
		projectsWatchCmd,
		projectsRepairCmd,
	)
	rootCmd.AddCommand(projectsCmd)
}

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"p"},
	Short:   "List and manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		listing, err := a.Listing.RetrieveProjectsListing(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderListing(listing.Items))
		return nil
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project with one default request spec",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.Listing.PersistNewProjectListingItem(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("created ")+IDStyle.Render(item.UUID)+"  "+NameStyle.Render(item.Name))
		return nil
	},
}

var projectsRenameCmd = &cobra.Command{
	Use:   "rename <project-uuid> <name>",
	Short: "Rename a project, keeping its specs",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.Listing.UpdateProjectListingItem(cmd.Context(), project.ListingItem{
			UUID: args[0],
			Name: strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("renamed ")+IDStyle.Render(item.UUID)+"  "+NameStyle.Render(item.Name))
		return nil
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "remove <project-uuid>",
	Short: "Permanently delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.Listing.RemoveProjectListingItem(cmd.Context(), project.ListingItem{UUID: args[0]})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("removed ")+IDStyle.Render(removed.UUID))
		return nil
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-uuid>",
	Short: "Show a project and its request specs",
	Args:  cobra.ExactArgs(1),
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

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, NameStyle.Render(p.Name)+"  "+IDStyle.Render(p.UUID))
		if len(p.Specs) == 0 {
			fmt.Fprintln(out, IDStyle.Render("no request specs"))
		}
		for _, spec := range p.Specs {
			fmt.Fprintln(out, "  "+renderSpecLine(spec))
		}
		return nil
	},
}

var projectsRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Remove files left behind by an interrupted rename",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Listing.Repair(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(report.Removed) == 0 {
			fmt.Fprintln(out, OkStyle.Render("nothing to repair"))
			return nil
		}
		for uuid, filenames := range report.Removed {
			for _, filename := range filenames {
				fmt.Fprintln(out, OkStyle.Render("removed ")+IDStyle.Render(uuid)+"  "+filename)
			}
		}
		return nil
	},
}

var projectsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the listing again whenever projects change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		printListing := func() error {
			listing, err := a.Listing.RetrieveProjectsListing(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), AccentStyle.Render("── "+time.Now().Format(time.TimeOnly)))
			fmt.Fprintln(cmd.OutOrStdout(), renderListing(listing.Items))
			return nil
		}
		// The first listing also creates the projects directory to watch.
		if err := printListing(); err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		dir := filepath.Join(cfg.Storage.Dir, opfs.DirPath(project.ProjectsSubdirectory))
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}

		// Writes arrive as bursts of events; print once per burst.
		const settle = 100 * time.Millisecond
		timer := time.NewTimer(settle)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				log.Debug("projects directory changed", zap.String("event", event.String()))
				timer.Reset(settle)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Warn("watcher error", zap.Error(err))
			case <-timer.C:
				if err := printListing(); err != nil {
					return err
				}
			}
		}
	},
}
