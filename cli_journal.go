package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"rifflingua-go/journal"

	"github.com/spf13/cobra"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Read and write the daily journal",
	}
	cmd.AddCommand(
		newJournalListCmd(),
		newJournalShowCmd(),
		newJournalAddCmd(),
		newJournalRmCmd(),
		newJournalSeedCmd(),
	)
	return cmd
}

func newJournalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest date first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			entries, err := a.journal.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No journal entries")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Date, e.Title, stars(e.Rating), deref(e.Mood), e.ID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Date", "Title", "Rating", "Mood", "ID"}, rows, nil))
			return nil
		}),
	}
}

func newJournalShowCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show [ID]",
		Short: "Show one entry by ID, or by --date",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			var (
				entry *journal.Entry
				err   error
			)
			switch {
			case len(args) == 1:
				entry, err = a.journal.GetByID(cmd.Context(), args[0])
			case date != "":
				entry, err = a.journal.GetByDate(cmd.Context(), date)
			default:
				return fmt.Errorf("give an entry ID or --date")
			}
			if err != nil {
				return err
			}
			if entry == nil {
				return journal.ErrNotFound
			}
			printEntry(cmd.OutOrStdout(), entry)
			return nil
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "date of the entry (YYYY-MM-DD)")
	return cmd
}

func newJournalAddCmd() *cobra.Command {
	var (
		entry    journal.Entry
		rating   int
		steps    int
		mood     string
		location string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a journal entry",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("rating") {
				entry.Rating = &rating
			}
			if flags.Changed("steps") {
				entry.Steps = &steps
			}
			if flags.Changed("mood") {
				entry.Mood = &mood
			}
			if flags.Changed("location") {
				entry.Location = &location
			}
			if flags.Changed("note") {
				entry.Note = &note
			}

			id, err := a.journal.Create(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", id)
			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&entry.Date, "date", time.Now().Format(journal.DateLayout), "date (YYYY-MM-DD)")
	flags.StringVar(&entry.Title, "title", "", "title (required)")
	flags.StringVar(&entry.Content, "content", "", "what happened")
	flags.IntVar(&rating, "rating", 0, "rating from 1 to 5")
	flags.IntVar(&steps, "steps", 0, "steps walked")
	flags.StringVar(&mood, "mood", "", "mood emoji or word")
	flags.StringVar(&location, "location", "", "where you were")
	flags.StringVar(&note, "note", "", "short note (up to 100 characters)")
	flags.StringSliceVar(&entry.Images, "image", nil, "image path or URL (repeatable)")
	return cmd
}

func newJournalRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.journal.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newJournalSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample entries to an empty journal",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			seeded, err := a.journal.SeedSampleData(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Journal is not empty, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d sample entries\n", len(journal.SampleEntries))
			return nil
		}),
	}
}

func printEntry(out io.Writer, e *journal.Entry) {
	fmt.Fprintf(out, "%s  %s\n", e.Date, e.Title)
	if e.Rating != nil {
		fmt.Fprintf(out, "Rating:   %s\n", stars(e.Rating))
	}
	if e.Mood != nil {
		fmt.Fprintf(out, "Mood:     %s\n", *e.Mood)
	}
	if e.Steps != nil {
		fmt.Fprintf(out, "Steps:    %s\n", strconv.Itoa(*e.Steps))
	}
	if e.Location != nil {
		fmt.Fprintf(out, "Location: %s\n", *e.Location)
	}
	if e.Note != nil {
		fmt.Fprintf(out, "Note:     %s\n", *e.Note)
	}
	if len(e.Images) > 0 {
		fmt.Fprintf(out, "Images:   %s\n", strings.Join(e.Images, ", "))
	}
	if e.Content != "" {
		fmt.Fprintf(out, "\n%s\n", e.Content)
	}
	fmt.Fprintf(out, "\nID %s, updated %s\n", e.ID, e.UpdatedAt.Local().Format(stampLayout))
}

func stars(rating *int) string {
	if rating == nil {
		return ""
	}
	return strings.Repeat("★", *rating) + strings.Repeat("☆", 5-*rating)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
