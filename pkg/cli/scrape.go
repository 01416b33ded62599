package cli

import (
	"context"
	"errors"
	"fmt"

	"lead-scraper-go/pkg/cli/output"
	"lead-scraper-go/pkg/controller"
	"lead-scraper-go/pkg/scraper"
)

// ErrJobFailed is returned when a submission ends in the error state. The
// error has already been printed.
var ErrJobFailed = errors.New("scrape job failed")

// HandleSubmitCommand runs one submission through the console view and
// optionally saves the produced file.
func (a *App) HandleSubmitCommand(ctx context.Context, values controller.FormValues, download bool) error {
	client, err := a.getClient()
	if err != nil {
		return err
	}

	console := output.NewConsole(a.out)
	ctrl := controller.New(client, console, a.log)

	outcome := ctrl.OnSubmit(ctx, values)
	if outcome.Phase != controller.PhaseSuccess {
		return ErrJobFailed
	}

	if !download {
		return nil
	}
	return a.saveFile(ctx, outcome.Result.Filename)
}

// HandleDownloadCommand saves a file produced by an earlier job
func (a *App) HandleDownloadCommand(ctx context.Context, filename string) error {
	return a.saveFile(ctx, filename)
}

func (a *App) saveFile(ctx context.Context, filename string) error {
	downloads, err := a.getDownloadService()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "⏳ Downloading %s...\n", filename)
	path, n, err := downloads.Save(ctx, filename)
	if err != nil {
		var scraperErr *scraper.ScraperError
		if errors.As(err, &scraperErr) {
			return fmt.Errorf("download failed: %s", scraperErr.UserMessage())
		}
		return fmt.Errorf("download failed: %w", err)
	}
	fmt.Fprint(a.out, output.FormatSavedMessage(path, n))
	return nil
}
