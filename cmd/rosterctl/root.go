package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fridaygt/fridaygt/common/clients"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	APIURL    string
	FanoutURL string
	UserID    string
	Timeout   time.Duration
	LogLevel  string
}

func (o *globalOptions) logger(cmd *cobra.Command) *logger.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr(), o.LogLevel, "text")
}

func (o *globalOptions) api(cmd *cobra.Command) *clients.APIClient {
	return clients.NewAPIClient(o.APIURL, o.Timeout, o.logger(cmd))
}

// userContext attaches the caller id to ctx after checking it is set
func (o *globalOptions) userContext(ctx context.Context) (context.Context, error) {
	if strings.TrimSpace(o.UserID) == "" {
		return nil, errors.New("--user (or FRIDAYGT_USER) is required")
	}
	if _, err := uuid.Parse(o.UserID); err != nil {
		return nil, fmt.Errorf("--user must be a user id: %w", err)
	}
	return clients.WithUserID(ctx, o.UserID), nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Inspect and reorder FridayGT run lists and race rosters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.APIURL, "api", envOr("FRIDAYGT_API", "http://localhost:8080"), "API base URL")
	flags.StringVar(&opts.FanoutURL, "fanout", envOr("FRIDAYGT_FANOUT", "ws://localhost:8084"), "fanout WebSocket base URL")
	flags.StringVar(&opts.UserID, "user", os.Getenv("FRIDAYGT_USER"), "acting user id")
	flags.DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-request timeout")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newMembersCmd(opts))
	cmd.AddCommand(newRacesCmd(opts))
	cmd.AddCommand(newRunListsCmd(opts))
	cmd.AddCommand(newLeaderboardCmd(opts))
	cmd.AddCommand(newWatchCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseID(what, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q is not a valid id", what, raw)
	}
	return id, nil
}

func parseIDs(what string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := parseID(what, s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
