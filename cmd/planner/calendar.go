package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/course-planner/api"
	"github.com/warp/course-planner/factory"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/logger"
	"github.com/warp/course-planner/store/sqlite"
	"github.com/warp/course-planner/telemetry"
)

func newCalendarCmd(load loader) *cobra.Command {
	var (
		region factory.RegionJSON
		from   int
		to     int
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the resolved holidays for a region",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := load(); err != nil {
				return err
			}
			if from == 0 {
				from = time.Now().Year()
			}
			if to == 0 {
				to = from
			}
			years := generic.YearRange{From: from, To: to}

			var holidays generic.HolidayStore
			if dbPath != "" {
				store, err := sqlite.New(dbPath)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer store.Close()
				holidays = store
			}

			h := api.NewHandler(holidays, telemetry.Nop{}, logger.Nop())
			dto, err := h.Excluded(factory.SelectorFromJSON(region), years)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dto)
		},
	}
	cmd.Flags().StringVar(&region.Region, "region", "", "region code, e.g. CN or MD")
	cmd.Flags().StringVar(&region.Subregion, "subregion", "", "island code, required for CN")
	cmd.Flags().StringVar(&region.Locality, "locality", "", "locality scope for local holidays")
	cmd.Flags().IntVar(&from, "from", 0, "first year (default: current year)")
	cmd.Flags().IntVar(&to, "to", 0, "last year (default: --from)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database with local holidays (optional)")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}
