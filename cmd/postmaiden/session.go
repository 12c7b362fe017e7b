package main

import (
	"context"
	"fmt"

	"github.com/blackcoderx/postmaiden/pkg/session"
	"github.com/spf13/cobra"
)

func init() {
	sessionCmd.AddCommand(sessionClaimCmd, sessionWatchCmd)
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and claim the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.Session.RetrieveClientSessionUUID(cmd.Context())
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Fprintln(cmd.OutOrStdout(), IDStyle.Render("no active session"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "active session "+AccentStyle.Render(id))
		return nil
	},
}

var sessionClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Make this process the active session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openAndClaim(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), OkStyle.Render("claimed ")+AccentStyle.Render(a.Guard.ID()))
		return nil
	},
}

var sessionWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Claim the session and wait until another process takes it over",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		a, err := openAndClaim(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "holding session %s, polling every %s\n", AccentStyle.Render(a.Guard.ID()), cfg.Session.PollInterval)

		done := make(chan error, 1)
		go func() { done <- a.Guard.Run(ctx) }()

		for {
			select {
			case <-ctx.Done():
				<-done
				return nil
			case state := <-a.Guard.Changes():
				if state == session.Superseded {
					fmt.Fprintln(out, blockingNotice(
						"Session taken over",
						"Another postmaiden process claimed this store.\nRun `postmaiden session claim` to take it back."))
					return nil
				}
			}
		}
	},
}
