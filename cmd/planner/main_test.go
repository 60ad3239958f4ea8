package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/course-planner/api"
)

const tenerifeFeed = `{
  "certificate": "ADGD0108",
  "start_date": "2026-07-21",
  "region": {"region": "CN", "subregion": "TF"},
  "shift": {"start_time": "09:00", "end_time": "14:00"},
  "modules": [
    {"id": "MF0231_3", "hours": 30},
    {"id": "MF0232_3", "hours": 60},
    {"id": "MF0233_2", "hours": 30}
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseMove(t *testing.T) {
	mv, err := parseMove("MF0232_3=2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, "MF0232_3", mv.ModuleID)
	assert.Equal(t, "2026-08-03", mv.Start.String())

	for _, bad := range []string{"MF0232_3", "=2026-08-03", "MF0232_3=03/08/2026"} {
		_, err := parseMove(bad)
		assert.Error(t, err, bad)
	}
}

func TestPlanCommand_GeneratesAndMoves(t *testing.T) {
	// GIVEN: the Tenerife feed on disk
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(tenerifeFeed), 0o644))

	// WHEN: planning it with one move
	out, err := execute(t, "plan", "--feed", path, "--move", "MF0232_3=2026-08-03")
	require.NoError(t, err)

	// THEN: the printed plan carries the cascaded dates
	var got planOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Moves, 1)
	assert.Equal(t, 2, got.Moves[0].AffectedCount)
	assert.True(t, got.Moves[0].Committed)
	assert.Equal(t, "2026-08-18", got.Plan.Modules[1].EndDate)
	assert.Equal(t, "2026-08-19", got.Plan.Modules[2].StartDate)
	assert.False(t, got.Plan.Blocking)
}

func TestPlanCommand_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(tenerifeFeed), 0o644))

	_, err := execute(t, "plan")
	assert.Error(t, err, "missing --feed")

	_, err = execute(t, "plan", "--feed", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, "plan", "--feed", path, "--move", "NOPE=2026-08-03")
	assert.Error(t, err)
}

func TestCalendarCommand(t *testing.T) {
	out, err := execute(t, "calendar", "--region", "CN", "--subregion", "TF", "--from", "2026")
	require.NoError(t, err)

	var got api.ExcludedDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2026, got.Years.From)
	assert.Equal(t, 2026, got.Years.To)
	assert.Contains(t, got.Dates, "2026-02-02")

	_, err = execute(t, "calendar", "--region", "CN", "--from", "2026")
	assert.Error(t, err, "Canarias needs an island")
}
