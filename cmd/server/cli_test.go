package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dodai/navigator/internal/config"
)

type workspace struct {
	dir string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NAVIGATOR_DB", filepath.Join(dir, "survey_responses.db"))
	t.Setenv("NAVIGATOR_INDEX_PATH", filepath.Join(dir, "index.bleve"))
	t.Setenv("NAVIGATOR_LOG_LEVEL", "error")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("NAVIGATOR_LLM_PROVIDER", "")
	return &workspace{dir: dir}
}

func (ws *workspace) run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(ws.dir, "missing.yaml")}, args...))
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

const importFile = `{"surveys": [
  {"id": 9, "first_name": "newer", "age_group": "35-44", "known_ai_tools": ["Claude"]},
  {"id": 4, "first_name": "older", "ai_creation_dream": "a recipe planner"}
]}`

func TestImportListShowStats(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(ws.dir, "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(importFile), 0o600))

	assert.Equal(t, "imported 2 responses\n", ws.run(t, "import", path))
	assert.Equal(t, "imported 0 responses\n", ws.run(t, "import", path))

	var listed struct {
		Surveys []map[string]any `json:"surveys"`
		Total   int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(ws.run(t, "responses", "list")), &listed))
	require.Equal(t, 2, listed.Total)
	assert.Equal(t, "newer", listed.Surveys[0]["first_name"])
	assert.EqualValues(t, 2, listed.Surveys[0]["id"])

	var one map[string]any
	require.NoError(t, json.Unmarshal([]byte(ws.run(t, "responses", "show", "2")), &one))
	assert.Equal(t, []any{"Claude"}, one["known_ai_tools"])

	profile := ws.run(t, "responses", "show", "2", "--profile")
	assert.Contains(t, profile, "35-44")
	assert.Contains(t, profile, "לא צוין")

	var st map[string]int
	require.NoError(t, json.Unmarshal([]byte(ws.run(t, "stats")), &st))
	assert.Equal(t, map[string]int{"total": 2, "today": 2}, st)

	assert.Equal(t, "indexed 2 responses\n", ws.run(t, "reindex"))
}

func TestImportKeepsRawMultiSelectText(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(ws.dir, "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"surveys":[{"id":3,"known_ai_tools":"ChatGPT, Claude","ai_barriers":["זמן"],"current_activity":null}]}`), 0o600))

	assert.Equal(t, "imported 1 responses\n", ws.run(t, "import", path))

	var one map[string]any
	require.NoError(t, json.Unmarshal([]byte(ws.run(t, "responses", "show", "1")), &one))
	assert.Equal(t, "ChatGPT, Claude", one["known_ai_tools"])
	assert.Equal(t, []any{"זמן"}, one["ai_barriers"])
	assert.Nil(t, one["current_activity"])
}

func TestShowMissingFails(t *testing.T) {
	ws := newWorkspace(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(ws.dir, "missing.yaml"), "responses", "show", "7"})
	assert.Error(t, cmd.Execute())
}

func TestExportToFile(t *testing.T) {
	ws := newWorkspace(t)
	path := filepath.Join(ws.dir, "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"known_ai_tools":["ChatGPT","Gemini"]}]`), 0o600))
	ws.run(t, "import", path)

	out := filepath.Join(ws.dir, "long.csv")
	ws.run(t, "export", "--format", "long", "-o", out)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(b), "known_ai_tools,Gemini")

	stdout := ws.run(t, "export")
	assert.Contains(t, stdout, "known_ai_tools")
	assert.Contains(t, stdout, "ChatGPT; Gemini")
}

func TestServeStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Store.Path = filepath.Join(dir, "survey_responses.db")
	cfg.Search.IndexPath = ""
	c := &cli{cfg: cfg, log: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	stop := time.AfterFunc(200*time.Millisecond, cancel)
	defer stop.Stop()
	assert.NoError(t, c.serve(ctx))

	_, err := os.Stat(cfg.Store.Path)
	assert.NoError(t, err)
}
