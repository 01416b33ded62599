package tui

import (
	"errors"

	"lead-scraper-go/pkg/scraper"
)

// renderLoadingState renders a standard loading message
func renderLoadingState(message string) string {
	return infoStyle.Render(message)
}

// renderInlineError renders an error message inline (without full error view formatting)
func renderInlineError(err error) string {
	if err == nil {
		return ""
	}
	return renderError(err.Error())
}

// userFacingError converts structured scraper errors into friendly messages,
// while leaving other error types unchanged.
func userFacingError(err error) error {
	if err == nil {
		return nil
	}

	var scraperErr *scraper.ScraperError
	if errors.As(err, &scraperErr) {
		return errors.New(scraperErr.UserMessage())
	}

	return err
}
