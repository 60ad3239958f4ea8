package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/warp/course-planner/api"
	"github.com/warp/course-planner/factory"
	"github.com/warp/course-planner/generic"
	"github.com/warp/course-planner/store/sqlite"
	"github.com/warp/course-planner/telemetry"
)

// errBlocking is returned by --strict when the final plan has blocking issues.
var errBlocking = errors.New("plan has blocking issues")

type moveFlag struct {
	ModuleID string
	Start    generic.TimePoint
}

// parseMove reads MODULE=YYYY-MM-DD.
func parseMove(s string) (moveFlag, error) {
	id, date, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(id) == "" {
		return moveFlag{}, fmt.Errorf("invalid --move %q: want MODULE=YYYY-MM-DD", s)
	}
	start, err := generic.ParseDate("move", strings.TrimSpace(date))
	if err != nil {
		return moveFlag{}, err
	}
	return moveFlag{ModuleID: strings.TrimSpace(id), Start: start}, nil
}

type planOutput struct {
	Plan  api.PlanDTO        `json:"plan"`
	Moves []api.MoveResponse `json:"moves,omitempty"`
}

func newPlanCmd(load loader) *cobra.Command {
	var (
		feedPath string
		dbPath   string
		moves    []string
		strict   bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a plan from a feed file",
		Long: `Generate a plan from a JSON feed, apply any --move in order, and print
the final plan with its issues and metrics. Use --feed - to read stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			parsed := make([]moveFlag, 0, len(moves))
			for _, m := range moves {
				mv, err := parseMove(m)
				if err != nil {
					return err
				}
				parsed = append(parsed, mv)
			}

			raw, err := readFeed(cmd.InOrStdin(), feedPath)
			if err != nil {
				return err
			}
			var fj factory.FeedJSON
			if err := json.Unmarshal(raw, &fj); err != nil {
				return fmt.Errorf("parse feed: %w", err)
			}

			var holidays generic.HolidayStore
			if dbPath != "" {
				store, err := sqlite.New(dbPath)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer store.Close()
				holidays = store
			}

			log := zerolog.New(cmd.ErrOrStderr()).Level(zerolog.WarnLevel).With().Timestamp().Str("component", "plan").Logger()
			h := api.NewHandler(holidays, telemetry.Nop{}, log)
			h.Feeds.YearsAhead = cfg.Calendar.YearsAhead

			out, err := runPlan(h, fj, parsed)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if strict && out.Plan.Blocking {
				return errBlocking
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&feedPath, "feed", "f", "", "feed JSON file, - for stdin")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database with local holidays (optional)")
	cmd.Flags().StringArrayVar(&moves, "move", nil, "move a module, MODULE=YYYY-MM-DD (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when the plan has blocking issues")
	_ = cmd.MarkFlagRequired("feed")
	return cmd
}

func runPlan(h *api.Handler, fj factory.FeedJSON, moves []moveFlag) (planOutput, error) {
	const id = "cli"
	plan, err := h.Generate(id, fj)
	if err != nil {
		return planOutput{}, err
	}
	out := planOutput{Plan: plan}
	for _, mv := range moves {
		resp, err := h.Move(id, mv.ModuleID, mv.Start, true)
		if err != nil {
			return planOutput{}, fmt.Errorf("move %s: %w", mv.ModuleID, err)
		}
		out.Moves = append(out.Moves, resp)
		out.Plan = resp.Plan
	}
	return out, nil
}

func readFeed(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	return raw, nil
}
