package main

import (
	"fmt"

	"github.com/fridaygt/fridaygt/common/clients"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRacesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "races",
		Short: "Races of a run list",
	}
	cmd.AddCommand(newRacesListCmd(opts))
	cmd.AddCommand(newRacesReorderCmd(opts))
	cmd.AddCommand(newRacesMoveCmd(opts))
	return cmd
}

func newRacesListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <runListId>",
		Short: "Print the races of a run list in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runListID, err := parseID("run list", args[0])
			if err != nil {
				return err
			}
			ctx, err := opts.userContext(cmd.Context())
			if err != nil {
				return err
			}

			races, err := opts.api(cmd).ListRaces(ctx, runListID)
			if err != nil {
				return err
			}
			return printRaces(cmd.OutOrStdout(), races)
		},
	}
}

func newRacesReorderCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <runListId> <raceId>...",
		Short: "Set the full race order of a run list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runListID, err := parseID("run list", args[0])
			if err != nil {
				return err
			}
			target, err := parseIDs("race", args[1:])
			if err != nil {
				return err
			}
			return reorderRaces(cmd, opts, runListID, func(current []uuid.UUID) ([]drop, error) {
				return planDrops(current, target)
			})
		},
	}
}

func newRacesMoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <runListId> <from> <to>",
		Short: "Drag one race from position <from> to position <to> (1-based)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runListID, err := parseID("run list", args[0])
			if err != nil {
				return err
			}
			from, to, err := parsePositions(args[1], args[2])
			if err != nil {
				return err
			}
			return reorderRaces(cmd, opts, runListID, func([]uuid.UUID) ([]drop, error) {
				return []drop{{From: from, To: to}}, nil
			})
		},
	}
}

func reorderRaces(cmd *cobra.Command, opts *globalOptions, runListID uuid.UUID, plan func([]uuid.UUID) ([]drop, error)) error {
	ctx, err := opts.userContext(cmd.Context())
	if err != nil {
		return err
	}
	api := opts.api(cmd)

	races, err := api.ListRaces(ctx, runListID)
	if err != nil {
		return err
	}
	current := raceIDs(races)

	drops, err := plan(current)
	if err != nil {
		return err
	}
	if _, err := applyDrops(ctx, current, drops, clients.RaceSaver(api, opts.UserID, runListID), opts.logger(cmd)); err != nil {
		return fmt.Errorf("reorder rolled back: %w", err)
	}

	races, err = api.ListRaces(ctx, runListID)
	if err != nil {
		return err
	}
	return printRaces(cmd.OutOrStdout(), races)
}

func raceIDs(races []models.Race) []uuid.UUID {
	ids := make([]uuid.UUID, len(races))
	for i, r := range races {
		ids[i] = r.ID
	}
	return ids
}
