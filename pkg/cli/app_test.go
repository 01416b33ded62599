package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"lead-scraper-go/pkg/config"
	"lead-scraper-go/pkg/controller"
	"lead-scraper-go/pkg/scraper"
	"lead-scraper-go/pkg/scraper/scrapertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, baseURL string) (*App, *bytes.Buffer) {
	t.Helper()
	t.Setenv("LEAD_SCRAPER_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	t.Setenv("BASE_URL", "")
	t.Setenv("LEAD_SCRAPER_OUTPUT_DIR", "")

	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = baseURL
	cfg.Server.RequestTimeout = 5
	cfg.Output.Dir = filepath.Join(t.TempDir(), "output")

	var out bytes.Buffer
	app := NewApp(cfg)
	app.SetOutput(&out)
	return app, &out
}

func TestHandleSubmitCommand_Success(t *testing.T) {
	srv := scrapertest.NewServer()
	defer srv.Close()
	srv.ReplySuccess("Scraped 2 leads", 2, "leads_austin.csv")

	app, out := newTestApp(t, srv.URL)
	err := app.HandleSubmitCommand(context.Background(), controller.FormValues{City: "Austin", Query: "Dentist", MaxLeads: "2"}, false)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Processing...")
	assert.Contains(t, out.String(), "✓ Scraping complete!")
	assert.Contains(t, out.String(), "Total leads: 2")
	assert.Contains(t, out.String(), srv.URL+"/download/leads_austin.csv")
	assert.Empty(t, srv.Downloads())
}

func TestHandleSubmitCommand_WithDownload(t *testing.T) {
	srv := scrapertest.NewServer()
	defer srv.Close()
	srv.ReplySuccess("Done", 1, "leads.csv")
	srv.AddFile("leads.csv", "Business Name\nAcme\n")

	app, out := newTestApp(t, srv.URL)
	err := app.HandleSubmitCommand(context.Background(), controller.FormValues{City: "Austin"}, true)
	require.NoError(t, err)

	path := filepath.Join(app.cfg.Output.Dir, "leads.csv")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Business Name\nAcme\n", string(data))
	assert.Contains(t, out.String(), "✓ Saved "+path)
}

func TestHandleSubmitCommand_ApplicationError(t *testing.T) {
	srv := scrapertest.NewServer()
	defer srv.Close()
	srv.Reply(scrapertest.Reply{StatusCode: http.StatusBadRequest, Body: `{"status":"error","message":"City is required"}`})

	app, out := newTestApp(t, srv.URL)
	err := app.HandleSubmitCommand(context.Background(), controller.FormValues{}, true)
	assert.ErrorIs(t, err, ErrJobFailed)
	assert.Contains(t, out.String(), "❌ Error: City is required")
	assert.Empty(t, srv.Downloads())
}

func TestHandleSubmitCommand_ServerDown(t *testing.T) {
	srv := scrapertest.NewServer()
	url := srv.URL
	srv.Close()

	app, out := newTestApp(t, url)
	err := app.HandleSubmitCommand(context.Background(), controller.FormValues{City: "Austin"}, false)
	assert.ErrorIs(t, err, ErrJobFailed)
	assert.Contains(t, out.String(), scraper.ConnectFailedMessage)
}

func TestHandleSubmitCommand_InvalidBaseURL(t *testing.T) {
	app, _ := newTestApp(t, "localhost:5002")
	err := app.HandleSubmitCommand(context.Background(), controller.FormValues{}, false)
	assert.ErrorContains(t, err, "server not configured")
}

func TestHandleDownloadCommand(t *testing.T) {
	srv := scrapertest.NewServer()
	defer srv.Close()
	srv.AddFile("old.csv", "a,b\n")

	app, _ := newTestApp(t, srv.URL)
	require.NoError(t, app.HandleDownloadCommand(context.Background(), "old.csv"))
	assert.FileExists(t, filepath.Join(app.cfg.Output.Dir, "old.csv"))

	err := app.HandleDownloadCommand(context.Background(), "missing.csv")
	assert.ErrorContains(t, err, "File not found")

	err = app.HandleDownloadCommand(context.Background(), "../escape.csv")
	assert.ErrorContains(t, err, "invalid filename")
}

func TestSetConfig(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:5002")

	require.NoError(t, app.SetConfig("server.base_url=http://jobs.internal:8000/"))
	require.NoError(t, app.SetConfig("server.request_timeout=600"))
	require.NoError(t, app.SetConfig("output.dir=/data/leads"))
	require.NoError(t, app.SetConfig("log.level=debug"))

	path, err := config.ConfigPath()
	require.NoError(t, err)
	saved, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://jobs.internal:8000", saved.Server.BaseURL)
	assert.Equal(t, 600, saved.Server.RequestTimeout)
	assert.Equal(t, "/data/leads", saved.Output.Dir)
	assert.Equal(t, "debug", saved.Log.Level)
}

func TestSetConfig_KeepsEnvOverridesOutOfFile(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:5002")
	t.Setenv("BASE_URL", "http://from-env:9000")
	t.Setenv("LEAD_SCRAPER_OUTPUT_DIR", "/tmp/env-output")

	path, err := config.ConfigPath()
	require.NoError(t, err)
	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	app.cfg = loaded
	require.Equal(t, "http://from-env:9000", app.cfg.Server.BaseURL)

	require.NoError(t, app.SetConfig("log.level=debug"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
	assert.NotContains(t, string(data), "env-output")

	stored, err := config.LoadFileFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", stored.Log.Level)
	assert.Equal(t, config.DefaultConfig().Server.BaseURL, stored.Server.BaseURL)

	// The running config keeps the override and picks up the new value
	assert.Equal(t, "http://from-env:9000", app.cfg.Server.BaseURL)
	assert.Equal(t, "debug", app.cfg.Log.Level)
}

func TestSetConfig_Errors(t *testing.T) {
	app, _ := newTestApp(t, "http://127.0.0.1:5002")

	tests := []struct {
		in      string
		wantErr string
	}{
		{"server.base_url", "invalid format"},
		{"base_url=http://x", "invalid key format"},
		{"server.base_url=ftp://x", "scheme"},
		{"server.request_timeout=-1", "invalid request_timeout"},
		{"server.request_timeout=soon", "invalid request_timeout"},
		{"server.port=80", "unknown server key"},
		{"output.dir=", "cannot be empty"},
		{"log.level=loud", "invalid log level"},
		{"database.url=postgres://", "unknown section"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.ErrorContains(t, app.SetConfig(tt.in), tt.wantErr)
		})
	}
}

func TestShowConfig(t *testing.T) {
	app, out := newTestApp(t, "http://127.0.0.1:5002")
	require.NoError(t, app.ShowConfig())
	assert.Contains(t, out.String(), "[server]")
	assert.Contains(t, out.String(), "http://127.0.0.1:5002")
}
