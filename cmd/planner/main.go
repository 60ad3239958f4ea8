/*
main.go - Application entry point

PURPOSE:
  The planner binary. Serves the HTTP API or runs one-shot planning and
  calendar queries from the command line.

COMMANDS:
  serve      Start the HTTP server (default when no command is given)
  plan       Generate a plan from a feed file and print it as JSON
  calendar   Print the resolved holidays for a region

GLOBAL FLAGS:
  -c, --config   Optional YAML or JSON config file
  --env-file     Optional .env file loaded before the environment
                 Environment overrides use the PLANNER_ prefix

EXAMPLES:
  # Run the server on a file database
  ./planner serve --db ./data/planner.db

  # Run with an in-memory database
  ./planner serve --db ":memory:" --port 3000

  # Plan a feed and preview a move
  ./planner plan --feed feed.json --move MF0232_3=2026-08-03

  # Holidays for Tenerife over two years
  ./planner calendar --region CN --subregion TF --from 2026 --to 2027

SEE ALSO:
  - serve.go: Server startup and graceful shutdown
  - plan.go: Offline planning
  - config/config.go: Configuration sources
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/course-planner/config"
	"github.com/warp/course-planner/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath, envFile string

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Course module scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with PLANNER_ overrides")

	load := func() (*config.Config, error) {
		if envFile != "" {
			if err := config.LoadDotenv(envFile); err != nil {
				return nil, err
			}
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return cfg, nil
	}

	serve := newServeCmd(load)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newPlanCmd(load), newCalendarCmd(load))
	return root
}
