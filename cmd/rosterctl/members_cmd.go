package main

import (
	"fmt"
	"strconv"

	"github.com/fridaygt/fridaygt/common/clients"
	"github.com/fridaygt/fridaygt/common/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMembersCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Race rosters",
	}
	cmd.AddCommand(newMembersListCmd(opts))
	cmd.AddCommand(newMembersReorderCmd(opts))
	cmd.AddCommand(newMembersMoveCmd(opts))
	return cmd
}

func newMembersListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <raceId>",
		Short: "Print a race roster in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raceID, err := parseID("race", args[0])
			if err != nil {
				return err
			}
			ctx, err := opts.userContext(cmd.Context())
			if err != nil {
				return err
			}

			members, err := opts.api(cmd).ListMembers(ctx, raceID)
			if err != nil {
				return err
			}
			return printMembers(cmd.OutOrStdout(), members)
		},
	}
}

func newMembersReorderCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <raceId> <memberId>...",
		Short: "Set the full roster order of a race",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raceID, err := parseID("race", args[0])
			if err != nil {
				return err
			}
			target, err := parseIDs("member", args[1:])
			if err != nil {
				return err
			}
			return reorderMembers(cmd, opts, raceID, func(current []uuid.UUID) ([]drop, error) {
				return planDrops(current, target)
			})
		},
	}
}

func newMembersMoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <raceId> <from> <to>",
		Short: "Drag one driver from position <from> to position <to> (1-based)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raceID, err := parseID("race", args[0])
			if err != nil {
				return err
			}
			from, to, err := parsePositions(args[1], args[2])
			if err != nil {
				return err
			}
			return reorderMembers(cmd, opts, raceID, func([]uuid.UUID) ([]drop, error) {
				return []drop{{From: from, To: to}}, nil
			})
		},
	}
}

func reorderMembers(cmd *cobra.Command, opts *globalOptions, raceID uuid.UUID, plan func([]uuid.UUID) ([]drop, error)) error {
	ctx, err := opts.userContext(cmd.Context())
	if err != nil {
		return err
	}
	api := opts.api(cmd)

	members, err := api.ListMembers(ctx, raceID)
	if err != nil {
		return err
	}
	current := memberIDs(members)

	drops, err := plan(current)
	if err != nil {
		return err
	}
	if _, err := applyDrops(ctx, current, drops, clients.MemberSaver(api, opts.UserID, raceID), opts.logger(cmd)); err != nil {
		return fmt.Errorf("reorder rolled back: %w", err)
	}

	members, err = api.ListMembers(ctx, raceID)
	if err != nil {
		return err
	}
	return printMembers(cmd.OutOrStdout(), members)
}

func memberIDs(members []models.Member) []uuid.UUID {
	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func parsePositions(rawFrom, rawTo string) (int, int, error) {
	from, err := strconv.Atoi(rawFrom)
	if err != nil || from < 1 {
		return 0, 0, fmt.Errorf("from %q must be a position starting at 1", rawFrom)
	}
	to, err := strconv.Atoi(rawTo)
	if err != nil || to < 1 {
		return 0, 0, fmt.Errorf("to %q must be a position starting at 1", rawTo)
	}
	return from - 1, to - 1, nil
}
