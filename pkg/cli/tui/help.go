package tui

import (
	"fmt"
	"strings"
)

// HelpItem represents a single keyboard shortcut and its description
type HelpItem struct {
	Key         string
	Description string
}

// ScrapeFormHelpContent returns help for the scrape form
func ScrapeFormHelpContent() string {
	items := []HelpItem{
		{"Tab / ↓", "Next field"},
		{"Shift+Tab / ↑", "Previous field"},
		{"Enter", "Start scraping (ignored while a job is running)"},
		{"Ctrl+S", "Save the produced file to the output directory"},
		{"Ctrl+Y", "Copy the download link"},
		{"F1", "Toggle help"},
		{"Esc / Ctrl+C", "Quit"},
	}
	return renderHelpItems(items)
}

// renderHelpItems formats help items into a readable string
func renderHelpItems(items []HelpItem) string {
	var b strings.Builder
	for _, item := range items {
		keyStyle := boldStyle.Foreground(colorPrimary).Width(16)
		b.WriteString(fmt.Sprintf("  %s %s\n",
			keyStyle.Render(item.Key),
			item.Description))
	}
	return b.String()
}
