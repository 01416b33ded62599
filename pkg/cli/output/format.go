package output

import (
	"fmt"
	"strings"

	"lead-scraper-go/pkg/scraper"
)

// FormatSuccessMessage formats a finished job for CLI output
func FormatSuccessMessage(res scraper.Success) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("✓ Scraping complete!\n")
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Result:      %s\n", res.Message))
	b.WriteString(fmt.Sprintf("  Total leads: %d\n", res.TotalLeads))
	b.WriteString(fmt.Sprintf("  Download:    %s\n", res.DownloadURL))
	b.WriteString("\n")

	return b.String()
}

// FormatErrorMessage formats an error message consistently
func FormatErrorMessage(message string) string {
	return fmt.Sprintf("❌ Error: %s\n", message)
}

// FormatSavedMessage formats the result of a download
func FormatSavedMessage(path string, bytes int64) string {
	return fmt.Sprintf("✓ Saved %s (%d bytes)\n", path, bytes)
}
