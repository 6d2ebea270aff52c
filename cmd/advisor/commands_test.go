package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agri-advisor/internal/advisor"
	"github.com/danielpatrickdp/agri-advisor/internal/config"
	"github.com/danielpatrickdp/agri-advisor/internal/generation"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
	"github.com/danielpatrickdp/agri-advisor/internal/store"
)

// #region helpers
const fixturePath = "../../internal/store/testdata/seed.yaml"

type fixedGenerator struct{ text string }

func (g fixedGenerator) Generate(_ context.Context, _ generation.Request) (generation.Result, error) {
	return generation.Result{Text: g.text, Model: "fixed"}, nil
}

// testOpener opens a fresh store handle on dbPath for every command.
func testOpener(dbPath string) opener {
	return func(_ *cli.Context, withGenerator bool) (*env, error) {
		st, err := store.NewStore(dbPath)
		if err != nil {
			return nil, err
		}
		e := &env{cfg: config.Default(), log: zap.NewNop(), store: st, closers: []func() error{st.Close}}
		if withGenerator {
			e.generator = fixedGenerator{text: "Water the field twice a week in the early morning."}
		}
		return e, nil
	}
}

func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "advisor.db")
	st, err := store.NewStore(path)
	require.NoError(t, err)
	f, err := store.LoadFixture(fixturePath)
	require.NoError(t, err)
	require.NoError(t, st.Seed(context.Background(), f))
	require.NoError(t, st.Close())
	return path
}

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(testOpener(dbPath))
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"agri-advisor"}, args...))
	return out.String(), err
}

// #endregion helpers

// #region tests
func TestAsk_PrintsAnswerAndLogsHistory(t *testing.T) {
	db := seededDB(t)

	out, err := run(t, db, "ask", "--profile", "1", "When", "should", "I", "irrigate", "cotton?")
	require.NoError(t, err)
	assert.Contains(t, out, "Water the field twice a week")

	out, err = run(t, db, "history", "--limit", "5")
	require.NoError(t, err)
	var rows []store.Exchange
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "When should I irrigate cotton?", rows[0].Query)
	assert.True(t, rows[0].Success)
}

func TestAsk_JSON(t *testing.T) {
	db := seededDB(t)

	out, err := run(t, db, "ask", "--json", "--profile", "1", "black soil crops")
	require.NoError(t, err)
	var resp advisor.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SessionID)
	require.NotNil(t, resp.ContextUsed)
}

func TestAsk_RequiresQuestion(t *testing.T) {
	_, err := run(t, seededDB(t), "ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question is required")
}

func TestChat_SessionLoop(t *testing.T) {
	db := seededDB(t)
	app := newCLIApp(testOpener(db))
	var out bytes.Buffer
	app.Writer = &out
	app.Reader = strings.NewReader("how much water?\n\nquit\nnever asked\n")

	require.NoError(t, app.Run([]string{"agri-advisor", "chat", "--profile", "1"}))
	assert.Contains(t, out.String(), prompt.Greeting("en"))
	assert.Equal(t, 1, strings.Count(out.String(), "Water the field"))

	st, err := store.NewStore(db)
	require.NoError(t, err)
	defer st.Close()
	rows, err := st.RecentHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestInsights_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil.yaml")
	doc := `soil:
  bulk_density: {0to5cm: 1.7}
  cation_exchange: {0to5cm: 8}
  clay_content: {0to5cm: 22}
conditions:
  moisture: 0.1
  temperature: 30
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := run(t, filepath.Join(t.TempDir(), "unused.db"), "insights", "--file", path)
	require.NoError(t, err)
	var got insights.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 25, got.Insights.Irrigation.AmountMM)
	assert.Equal(t, 20, got.Insights.SoilHealth.Score)
}

func TestInsights_FileWithoutMoistureBand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soil.yaml")
	doc := `soil:
  bulk_density: {0to5cm: 1.3}
  cation_exchange: {0to5cm: 18}
  clay_content: {0to5cm: 25}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := run(t, filepath.Join(t.TempDir(), "unused.db"), "insights", "--file", path)
	require.NoError(t, err)
	var got insights.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, 0, got.Insights.Irrigation.AmountMM)
	assert.NotContains(t, got.Insights.SoilHealth.Issues, "Low soil moisture indicates drought stress")
	assert.NotContains(t, got.PriorityActions, "URGENT: Increase irrigation to prevent drought stress")
	assert.Contains(t, got.Failed, "Irrigation advice")
	assert.Contains(t, got.Failed, "Soil health")
}

func TestSeed_Fixture(t *testing.T) {
	db := filepath.Join(t.TempDir(), "fresh.db")
	out, err := run(t, db, "seed", "--file", fixturePath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 users")

	st, err := store.NewStore(db)
	require.NoError(t, err)
	defer st.Close()
	u, err := st.UserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}

// #endregion tests
