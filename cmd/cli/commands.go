package main

import (
	"fmt"

	"lead-scraper-go/pkg/cli"
	"lead-scraper-go/pkg/cli/logger"
	"lead-scraper-go/pkg/config"
	"lead-scraper-go/pkg/controller"

	"github.com/spf13/cobra"
)

const appName = "lead-scraper"

// appHolder carries the app from PersistentPreRunE to the subcommands
type appHolder struct {
	app *cli.App
}

// newRootCmd builds the command tree. The app is created once the config
// has been loaded in PersistentPreRunE.
func newRootCmd() *cobra.Command {
	h := &appHolder{}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Submit lead scraping jobs and fetch their results",
		Long:          `Submit lead scraping jobs (city, query, max leads) to the job backend and download the produced files. Without a subcommand an interactive form is started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// The terminal belongs to the UI, so logs go to a file
			if err := logger.Init(cfg.Log.Dir, cfg.Log.Level); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v (logging to stderr)\n", err)
			}
			h.app = cli.NewApp(cfg)
			h.app.SetOutput(cmd.OutOrStdout())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.app.Run()
		},
	}

	rootCmd.AddCommand(
		newSubmitCmd(h),
		newDownloadCmd(h),
		newConfigCmd(h),
	)
	return rootCmd
}

func newSubmitCmd(h *appHolder) *cobra.Command {
	var (
		values   controller.FormValues
		download bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one scrape job and print the outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.app.HandleSubmitCommand(cmd.Context(), values, download)
		},
	}

	cmd.Flags().StringVar(&values.City, "city", "", "city to search in")
	cmd.Flags().StringVar(&values.Query, "query", "", "search query (e.g. \"Dentist near Austin\")")
	cmd.Flags().StringVar(&values.MaxLeads, "max-leads", "", "maximum number of leads, passed to the server as typed")
	cmd.Flags().BoolVar(&download, "download", false, "save the produced file to the output directory")
	return cmd
}

func newDownloadCmd(h *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "download <filename>",
		Short: "Save a file produced by an earlier job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.app.HandleDownloadCommand(cmd.Context(), args[0])
		},
	}
}

func newConfigCmd(h *appHolder) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return h.app.ShowConfig()
			},
		},
		&cobra.Command{
			Use:   "set section.key=value",
			Short: "Set a config value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := h.app.SetConfig(args[0]); err != nil {
					return fmt.Errorf("failed to set config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated successfully")
				return nil
			},
		},
	)
	return configCmd
}
