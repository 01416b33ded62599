package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"lead-scraper-go/pkg/cli/logger"
	"lead-scraper-go/pkg/cli/tui"
	"lead-scraper-go/pkg/config"
	"lead-scraper-go/pkg/scraper"
	"lead-scraper-go/pkg/services"
	"lead-scraper-go/pkg/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type App struct {
	cfg    *config.Config
	client *scraper.Client
	out    io.Writer
	log    logrus.FieldLogger
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
		out: os.Stdout,
		log: logger.Get(),
	}
}

// SetOutput redirects command output, stdout by default
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}

// getClient returns the job backend client, creating it if necessary
func (a *App) getClient() (*scraper.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	baseURL, err := utils.ValidateBaseURL(a.cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("server not configured: %w", err)
	}

	timeout := time.Duration(a.cfg.Server.RequestTimeout) * time.Second
	a.client = scraper.NewClient(baseURL, timeout)
	return a.client, nil
}

// getDownloadService returns a download service saving into the configured
// output directory
func (a *App) getDownloadService() (*services.DownloadService, error) {
	client, err := a.getClient()
	if err != nil {
		return nil, err
	}
	return services.NewDownloadService(client, a.cfg.Output.Dir, a.log), nil
}

// Run starts the interactive scrape form
func (a *App) Run() error {
	client, err := a.getClient()
	if err != nil {
		return err
	}
	downloads, err := a.getDownloadService()
	if err != nil {
		return err
	}

	logger.Log("starting TUI against %s", client.BaseURL())

	form := tui.NewScrapeForm(client, downloads, a.log)
	root := tui.NewRootModel(form)
	if c, ok := root.(interface{ Close() }); ok {
		defer c.Close()
	}

	p := tea.NewProgram(root)
	if _, err := p.Run(); err != nil {
		logger.LogError(err, "TUI exited with error")
		return fmt.Errorf("error running form: %w", err)
	}
	return nil
}
