package main

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "rifflingua",
		Short:         "Learn languages with songs: lyrics, translations, videos and a daily journal",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() == "serve" {
				setupLogging(os.Stdout, true, verbose)
			} else {
				setupLogging(cmd.ErrOrStderr(), false, verbose)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newLyricsCmd(),
		newTodayCmd(),
		newVideoCmd(),
		newTranslateCmd(),
		newQuotaCmd(),
		newSongsCmd(),
		newJournalCmd(),
		newCacheCmd(),
	)
	return root
}

// setupLogging uses JSON logs for the server and terse text logs for CLI
// commands. CLI commands only log warnings unless verbose is set.
func setupLogging(out io.Writer, server, verbose bool) {
	log.SetOutput(out)

	level, err := log.ParseLevel(conf.Configuration.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	if server {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
		if level > log.WarnLevel {
			level = log.WarnLevel
		}
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}

// withApp opens the application for the duration of a command.
func withApp(run func(cmd *cobra.Command, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(conf)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}
