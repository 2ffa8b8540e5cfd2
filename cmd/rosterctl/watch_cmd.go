package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/fridaygt/fridaygt/common/events"
	"github.com/fridaygt/fridaygt/common/listctl"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	Parent string
	Kind   string
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var wopts watchOptions

	cmd := &cobra.Command{
		Use:   "watch --parent <raceId|runListId> [--kind members|races]",
		Short: "Tail realtime order changes of a race roster or run list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := parseID("parent", wopts.Parent)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var local *listctl.Controller
			if wopts.Kind != "" {
				if local, err = seedWatch(ctx, cmd, opts, wopts.Kind, parent); err != nil {
					return err
				}
				defer local.Close()
			}

			return watch(ctx, opts.FanoutURL, parent, cmd.OutOrStdout(), local)
		},
	}

	cmd.Flags().StringVar(&wopts.Parent, "parent", "", "race id (roster) or run list id (races)")
	cmd.Flags().StringVar(&wopts.Kind, "kind", "", "members or races: keep a local copy and print it after every change")
	return cmd
}

// seedWatch loads the current list so remote patches can be merged into it
func seedWatch(ctx context.Context, cmd *cobra.Command, opts *globalOptions, kind string, parent uuid.UUID) (*listctl.Controller, error) {
	ctx, err := opts.userContext(ctx)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	switch kind {
	case "members":
		members, err := opts.api(cmd).ListMembers(ctx, parent)
		if err != nil {
			return nil, err
		}
		ids = memberIDs(members)
	case "races":
		races, err := opts.api(cmd).ListRaces(ctx, parent)
		if err != nil {
			return nil, err
		}
		ids = raceIDs(races)
	default:
		return nil, fmt.Errorf("--kind must be members or races, got %q", kind)
	}

	// read-only copy: nothing is ever dropped, so the saver is never called
	readOnly := listctl.SaverFunc(func(context.Context, []uuid.UUID) ([]uuid.UUID, error) {
		return nil, errors.New("watch is read-only")
	})
	return listctl.New(ids, readOnly, listctl.Options{Logger: opts.logger(cmd)}), nil
}

func watchURL(base string, parent uuid.UUID) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/ws")
	if err != nil {
		return "", fmt.Errorf("invalid fanout url: %w", err)
	}
	q := u.Query()
	q.Set("parent", parent.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// watch prints every event for parent until ctx ends or the server hangs up
func watch(ctx context.Context, fanoutURL string, parent uuid.UUID, out io.Writer, local *listctl.Controller) error {
	target, err := watchURL(fanoutURL, parent)
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", target, err)
	}
	resp.Body.Close()
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	fmt.Fprintf(out, "watching %s\n", parent)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		ev, err := events.Decode(payload)
		if err != nil {
			fmt.Fprintf(out, "skipping malformed event: %v\n", err)
			continue
		}
		printEvent(out, ev)

		if local != nil {
			if _, err := local.ApplyRemote(ev.Patch); err != nil {
				fmt.Fprintf(out, "  could not merge change, resyncing from event: %v\n", err)
				local.Replace(orderedIDs(ev.Order))
			}
			for i, id := range local.List() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, id)
			}
		}
	}
}

func printEvent(w io.Writer, ev events.RosterEvent) {
	fmt.Fprintf(w, "%s %s by %s (%d items)\n", ev.At.Local().Format("15:04:05"), ev.Type, ev.ActorID, len(ev.Order))
}

// orderedIDs sorts an id→order map by order
func orderedIDs(order map[string]int) []uuid.UUID {
	type entry struct {
		id    uuid.UUID
		order int
	}
	entries := make([]entry, 0, len(order))
	for k, v := range order {
		if id, err := uuid.Parse(k); err == nil {
			entries = append(entries, entry{id, v})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}
