package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fridaygt/fridaygt/common/models"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printMembers(w io.Writer, members []models.Member) error {
	tw := table(w)
	fmt.Fprintln(tw, "#\tGAMERTAG\tTYRE\tID\tUPDATED BY")
	for _, m := range members {
		by := "-"
		if m.UpdatedByGamertag != nil {
			by = *m.UpdatedByGamertag
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.Order, m.Gamertag, m.Tyre, m.ID, by)
	}
	return tw.Flush()
}

func printRaces(w io.Writer, races []models.Race) error {
	tw := table(w)
	fmt.Fprintln(tw, "#\tTRACK\tCAR\tLAPS\tDRIVERS\tID")
	for _, r := range races {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", r.Order, r.Track, r.Car, r.Laps, r.MemberCount, r.ID)
	}
	return tw.Flush()
}

func printRunLists(w io.Writer, runLists []models.RunList) error {
	tw := table(w)
	fmt.Fprintln(tw, "DATE\tNAME\tRACES\tID")
	for _, rl := range runLists {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rl.ScheduledFor, rl.Name, rl.RaceCount, rl.ID)
	}
	return tw.Flush()
}

func printLeaderboard(w io.Writer, entries []models.LeaderboardEntry) error {
	tw := table(w)
	fmt.Fprintln(tw, "RANK\tGAMERTAG\tCAR\tLAP")
	for _, e := range entries {
		lap := time.Duration(e.LapMs) * time.Millisecond
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Rank, e.Gamertag, e.Car, lap)
	}
	return tw.Flush()
}
