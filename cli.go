package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rifflingua-go/cache"
	"rifflingua-go/services/search"

	"github.com/spf13/cobra"
)

const stampLayout = "2006-01-02 15:04"

func newLyricsCmd() *cobra.Command {
	var (
		force     bool
		translate string
	)

	cmd := &cobra.Command{
		Use:   "lyrics ARTIST TITLE",
		Short: "Show the lyrics of a song",
		Long: "Show the lyrics of a song. Saved and cached songs are free; " +
			"any other song uses one of the day's searches.",
		Args: cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			res, err := a.search.Lookup(cmd.Context(), args[0], args[1], search.Options{ForceRefresh: force})
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s - %s\n", res.Artist, res.Title)
			fmt.Fprintf(out, "Source: %s", res.Source)
			if res.Provider != "" {
				fmt.Fprintf(out, " (%s)", res.Provider)
			}
			fmt.Fprintf(out, ", %d search(es) left today\n", res.Remaining)
			if res.Video != nil {
				fmt.Fprintf(out, "Video: https://www.youtube.com/watch?v=%s\n", res.Video.VideoID)
			}
			fmt.Fprintf(out, "\n%s\n", res.Lyrics)

			if translate == "" {
				return nil
			}
			translated, err := a.translator.Translate(cmd.Context(), res.Lyrics, translate, "")
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(out, "\n--- %s ---\n\n%s\n", translate, translated)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&force, "force", false, "ignore saved and cached lyrics")
	cmd.Flags().StringVarP(&translate, "translate", "t", "", "also translate the lyrics into this language")
	return cmd
}

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show the song of the day and its vocabulary",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			song := a.catalog.Today(a.now())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s - %s (%s, %s)\n", song.Artist, song.Title, song.Difficulty, song.Duration)
			fmt.Fprintf(out, "Video: https://www.youtube.com/watch?v=%s\n", song.YouTubeID)

			rows := make([][]string, 0, len(song.Vocabulary))
			for _, v := range song.Vocabulary {
				rows = append(rows, []string{v.Word, v.Meaning, v.Example, v.Timestamp})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Word", "Meaning", "Example", "At"}, rows, nil))
			}
			return nil
		}),
	}
}

func newVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "video ARTIST TITLE",
		Short: "Find the music video of a song",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			match := a.videos.FindVideo(cmd.Context(), args[0], args[1])
			if match == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No video found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Video", "Title", "Channel"},
				[][]string{{match.VideoID, match.Title, match.ChannelTitle}},
				nil,
			))
			return nil
		}),
	}
}

func newTranslateCmd() *cobra.Command {
	var to, from string

	cmd := &cobra.Command{
		Use:   "translate [TEXT...]",
		Short: "Translate text (read from stdin when no text is given)",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			out, err := a.translator.Translate(cmd.Context(), text, to, from)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}),
	}
	cmd.Flags().StringVar(&to, "to", "", "target language (default DEFAULT_TARGET_LANG)")
	cmd.Flags().StringVar(&from, "from", "", "source language (default DEFAULT_SOURCE_LANG)")
	return cmd
}

func newQuotaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show today's remaining searches",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			printQuota(cmd.OutOrStdout(), a.search.Stats())
			return nil
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Give back today's searches",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			if err := a.ledger.Reset(); err != nil {
				return err
			}
			printQuota(cmd.OutOrStdout(), a.search.Stats())
			return nil
		}),
	})
	return cmd
}

func printQuota(out io.Writer, s search.Stats) {
	fmt.Fprintln(out, renderTable(
		[]string{"Remaining", "Daily limit", "Saved songs"},
		[][]string{{strconv.Itoa(s.Remaining), strconv.Itoa(s.Total), strconv.Itoa(s.SavedCount)}},
		[]columnAlignment{alignRight, alignRight, alignRight},
	))
}

func newSongsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "songs",
		Short: "Manage saved songs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved songs, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			list := a.registry.List()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved songs")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				rows = append(rows, []string{s.ID, s.Artist, s.Title, s.VideoID, s.SavedAt.Local().Format(stampLayout)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Artist", "Title", "Video", "Saved"}, rows, nil))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Remove a saved song",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.registry.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every saved song",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			if err := a.registry.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved songs cleared")
			return nil
		}),
	})
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "clear NAMESPACE|all",
		Short:     "Clear one cache namespace, or all of them",
		Args:      cobra.ExactArgs(1),
		ValidArgs: append([]string{"all"}, cache.Namespaces...),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if args[0] == "all" {
				if err := a.cache.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared every cache namespace")
				return nil
			}

			ns, ok := a.namespace(args[0])
			if !ok {
				return fmt.Errorf("unknown cache namespace %q (known: %s)", args[0], strings.Join(cache.Namespaces, ", "))
			}
			removed, err := ns.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d %s entries\n", removed, args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "backup",
		Short: "Back up the cache database",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			path, err := a.cache.Backup()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", path)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "backups",
		Short: "List cache backups, newest first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *App, _ []string) error {
			backups, err := a.cache.ListBackups()
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backups")
				return nil
			}
			rows := make([][]string, 0, len(backups))
			for _, b := range backups {
				rows = append(rows, []string{b.FileName, strconv.FormatInt(b.Size/1024, 10), b.CreatedAt.Local().Format(stampLayout)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "KB", "Created"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the cache with a backup (see 'cache backups')",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.cache.RestoreFromBackup(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
			return nil
		}),
	})
	return cmd
}

// userError prefixes err with the localized message shown to app users.
func userError(err error) error {
	lang := "en"
	if strings.HasPrefix(strings.ToLower(conf.Configuration.DefaultTargetLang), "tr") {
		lang = "tr"
	}
	return fmt.Errorf("%s (%w)", search.UserMessage(err, lang), err)
}
