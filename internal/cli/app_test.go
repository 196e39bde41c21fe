package cli_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tracer/internal/cli"
	"github.com/aretw0/tracer/internal/config"
)

func newApp(t *testing.T, mutate func(*config.Config)) *cli.App {
	t.Helper()
	cfg := config.Default()
	cfg.Store = "memory"
	cfg.PauseDelay = 0
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, cfg.Validate())
	app, err := cli.NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewApp_Stores(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := map[string]func(*config.Config){
		"memory": nil,
		"file": func(c *config.Config) {
			c.Store = "file"
			c.StorePath = filepath.Join(dir, "sessions")
		},
		"redis": func(c *config.Config) {
			c.Store = "redis"
			c.Redis.Addr = mr.Addr()
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			app := newApp(t, mutate)
			ctx := context.Background()

			_, err := app.Sessions.LoadOrStart(ctx, "s1", "linear-search", nil)
			require.NoError(t, err)
			ids, err := app.Sessions.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"s1"}, ids)
		})
	}
}

func TestNewApp_BadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Store = "memory"
	cfg.LogLevel = "loud"
	_, err := cli.NewApp(cfg)
	assert.Error(t, err)
}

func TestNewEngine_Seed(t *testing.T) {
	seed := 0.25
	app := newApp(t, func(c *config.Config) { c.Seed = &seed })
	ctx := context.Background()

	first, err := app.NewEngine("linear-search")
	require.NoError(t, err)
	defer first.Close()
	second, err := app.NewEngine("linear-search")
	require.NoError(t, err)
	defer second.Close()

	a, err := first.Count(ctx, nil)
	require.NoError(t, err)
	b, err := second.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, a.StartData, b.StartData, "a fixed seed draws the same data")

	_, err = app.NewEngine("sorting")
	assert.Error(t, err)
}

func TestParseData(t *testing.T) {
	data, err := cli.ParseData(`{"values": [1, 2], "target": 2}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"values": []any{1.0, 2.0}, "target": 2.0}, data)

	data, err = cli.ParseData("")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = cli.ParseData("{")
	assert.Error(t, err)
}

func TestRunSession_SavesAndResumes(t *testing.T) {
	app := newApp(t, nil)
	ctx := context.Background()
	data := map[string]any{"values": []any{4, 8, 15}, "target": 8}

	var out bytes.Buffer
	err := cli.RunSession(ctx, app, cli.RunOptions{
		Exercise:  "linear-search",
		SessionID: "run-1",
		Data:      data,
		Quiet:     true,
		Input:     strings.NewReader("hint\n"),
		Output:    &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Hint: ")

	sess, err := app.Sessions.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "linear-search", sess.Exercise)
	assert.Equal(t, -1, sess.State.LastStep)
}

func TestHandler_ServesMetrics(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Metrics = true })

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(`{"exercise":"linear-search","session_id":"h1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewApp_EncryptsSessions(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	app := newApp(t, func(c *config.Config) { c.Encryption.Key = key })
	ctx := context.Background()

	_, err := app.Sessions.LoadOrStart(ctx, "secret", "linear-search", map[string]any{"values": []any{1, 2}, "target": 2})
	require.NoError(t, err)

	sess, err := app.Sessions.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"values": []any{1.0, 2.0}, "target": 2.0}, sess.State.Data)

	cfg := config.Default()
	cfg.Store = "memory"
	cfg.Encryption.Key = "c2hvcnQ="
	_, err = cli.NewApp(cfg)
	assert.Error(t, err)
}

func TestDiagram(t *testing.T) {
	app := newApp(t, nil)
	ctx := context.Background()
	_, err := app.Sessions.LoadOrStart(ctx, "d1", "linear-search", map[string]any{"values": []any{3, 9}, "target": 9})
	require.NoError(t, err)

	out, err := cli.Diagram(ctx, app, "d1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "target: 9")
	assert.Contains(t, out, "current;")

	_, err = cli.Diagram(ctx, app, "missing")
	assert.Error(t, err)
}
