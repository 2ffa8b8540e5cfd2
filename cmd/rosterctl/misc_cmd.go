package main

import (
	"github.com/spf13/cobra"
)

func newRunListsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runlists",
		Short: "Scheduled sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print recent run lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := opts.userContext(cmd.Context())
			if err != nil {
				return err
			}
			runLists, err := opts.api(cmd).ListRunLists(ctx)
			if err != nil {
				return err
			}
			return printRunLists(cmd.OutOrStdout(), runLists)
		},
	})
	return cmd
}

func newLeaderboardCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <track>",
		Short: "Print the best lap per driver on a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.userContext(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := opts.api(cmd).Leaderboard(ctx, args[0])
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), entries)
		},
	}
}
