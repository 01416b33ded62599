package tui

import (
	"context"
	"fmt"
	"strings"

	"lead-scraper-go/pkg/controller"
	"lead-scraper-go/pkg/services"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// copyToClipboard is swapped out in tests
var copyToClipboard = clipboard.WriteAll

const (
	fieldCity = iota
	fieldQuery
	fieldMaxLeads
	fieldCount
)

// scrapeForm is the Bubble Tea model for the scrape job form. The request
// lifecycle is owned by the controller; this model only forwards key
// presses and renders the state the controller produces.
type scrapeForm struct {
	// Core dependencies
	controller *controller.RequestController
	downloads  *services.DownloadService
	log        logrus.FieldLogger

	// State updates from the controller, applied in order
	updates chan controller.UIState
	state   controller.UIState
	// submitting is set on Enter and cleared once an outcome is rendered
	submitting bool
	// submission counts submits; follow-up results from an earlier one are dropped
	submission int

	// Inputs
	inputs  [fieldCount]textinput.Model
	focused int
	spinner spinner.Model

	// Download / clipboard state
	downloading bool
	savedPath   string
	savedBytes  int64
	downloadErr error
	notice      string

	ctx    context.Context
	cancel context.CancelFunc
}

// Messages for controller updates and follow-up actions.
type stateMsg struct {
	state controller.UIState
}

type downloadDoneMsg struct {
	submission int
	path       string
	bytes      int64
	err        error
}

type copiedMsg struct {
	submission int
	err        error
}

// NewScrapeForm creates the scrape form model.
func NewScrapeForm(
	jobs controller.JobSubmitter,
	downloads *services.DownloadService,
	log logrus.FieldLogger,
) tea.Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := &scrapeForm{
		downloads: downloads,
		log:       log,
		updates:   make(chan controller.UIState, 16),
		ctx:       ctx,
		cancel:    cancel,
	}

	view := controller.NewStateView(func(s controller.UIState) {
		select {
		case m.updates <- s:
		case <-ctx.Done():
		}
	})
	m.controller = controller.New(jobs, view, log)

	// CharLimit 0 means unlimited; values are forwarded exactly as typed
	city := textinput.New()
	city.CharLimit = 0
	city.Placeholder = "e.g. Austin"
	city.Width = 40
	city.Focus()

	query := textinput.New()
	query.CharLimit = 0
	query.Placeholder = "Optional, e.g. Dentist near Austin"
	query.Width = 40

	maxLeads := textinput.New()
	maxLeads.CharLimit = 0
	maxLeads.Placeholder = "e.g. 50"
	maxLeads.Width = 40

	m.inputs = [fieldCount]textinput.Model{city, query, maxLeads}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = infoStyle
	m.spinner = sp

	return m
}

// Init implements tea.Model.
func (m *scrapeForm) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

// Close cancels any in-flight request.
func (m *scrapeForm) Close() {
	m.cancel()
}

// busy reports whether the submit control is disabled
func (m *scrapeForm) busy() bool {
	return m.submitting || m.state.Busy
}

// Update implements tea.Model.
func (m *scrapeForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = msg.state
		if m.state.SuccessVisible() || m.state.ErrorVisible() {
			m.submitting = false
		}
		return m, m.waitForUpdate()

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case downloadDoneMsg:
		if msg.submission != m.submission {
			return m, nil
		}
		m.downloading = false
		m.downloadErr = msg.err
		m.savedPath = msg.path
		m.savedBytes = msg.bytes
		return m, nil

	case copiedMsg:
		if msg.submission != m.submission {
			return m, nil
		}
		if msg.err != nil {
			m.notice = "Could not copy link: " + msg.err.Error()
		} else {
			m.notice = "Download link copied to clipboard"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *scrapeForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancel()
		return m, tea.Quit

	case "tab", "down":
		m.focused = (m.focused + 1) % fieldCount
		return m, m.focusCurrentField()

	case "shift+tab", "up":
		m.focused = (m.focused - 1 + fieldCount) % fieldCount
		return m, m.focusCurrentField()

	case "enter":
		if m.busy() {
			// Disabled while a request is in flight.
			return m, nil
		}
		return m.startSubmit()

	case "ctrl+s":
		if m.state.SuccessVisible() && !m.downloading && m.downloads != nil {
			m.downloading = true
			m.downloadErr = nil
			m.savedPath = ""
			return m, m.saveDownload(m.state.Result.Filename)
		}
		return m, nil

	case "ctrl+y":
		if m.state.SuccessVisible() {
			return m, copyLink(m.submission, m.state.Result.DownloadURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *scrapeForm) focusCurrentField() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.inputs[m.focused].Focus()
}

// values returns the raw input values.
func (m *scrapeForm) values() controller.FormValues {
	return controller.FormValues{
		City:     m.inputs[fieldCity].Value(),
		Query:    m.inputs[fieldQuery].Value(),
		MaxLeads: m.inputs[fieldMaxLeads].Value(),
	}
}

// startSubmit disables the control and hands the submission to the
// controller in a command goroutine.
func (m *scrapeForm) startSubmit() (tea.Model, tea.Cmd) {
	m.submitting = true
	m.submission++
	m.downloading = false
	m.savedPath = ""
	m.downloadErr = nil
	m.notice = ""

	return m, tea.Batch(
		m.runSubmit(m.values()),
		m.spinner.Tick,
	)
}

// runSubmit blocks until the request settles. Results arrive through the
// updates channel, so the command itself returns no message.
func (m *scrapeForm) runSubmit(values controller.FormValues) tea.Cmd {
	return func() tea.Msg {
		m.controller.OnSubmit(m.ctx, values)
		return nil
	}
}

// waitForUpdate reads the next controller state change
func (m *scrapeForm) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.updates:
			return stateMsg{state: s}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *scrapeForm) saveDownload(filename string) tea.Cmd {
	submission := m.submission
	return func() tea.Msg {
		path, n, err := m.downloads.Save(m.ctx, filename)
		return downloadDoneMsg{submission: submission, path: path, bytes: n, err: err}
	}
}

func copyLink(submission int, url string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{submission: submission, err: copyToClipboard(url)}
	}
}

// View implements tea.Model.
func (m *scrapeForm) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Lead Scraper"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"City:", "Query:", "Max leads:"}
	for i, input := range m.inputs {
		label := fieldLabelStyle.Render(fmt.Sprintf("%-11s", labels[i]))
		b.WriteString(label)
		if i == m.focused {
			b.WriteString(selectedStyle.Render(input.View()))
		} else {
			b.WriteString(input.View())
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderAffordance())
	b.WriteString("\n")

	if region := m.renderRegion(); region != "" {
		b.WriteString("\n")
		b.WriteString(region)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[Tab] Next field  [Enter] Start scraping  [F1] Help  [Esc] Quit"))
	b.WriteString("\n")

	return b.String()
}

func (m *scrapeForm) renderAffordance() string {
	if m.busy() {
		return m.spinner.View() + " " + disabledButtonStyle.Render("[ "+controller.BusyLabel+" ]")
	}
	return buttonStyle.Render("[ " + controller.IdleLabel + " ]")
}

// renderRegion renders the single visible presentation region, if any.
func (m *scrapeForm) renderRegion() string {
	switch m.state.Phase {
	case controller.PhaseLoading:
		return renderLoadingState("Scraping leads... this can take several minutes.")
	case controller.PhaseSuccess:
		return m.renderSuccessRegion()
	case controller.PhaseError:
		return renderError(m.state.ErrorMessage)
	default:
		return ""
	}
}

func (m *scrapeForm) renderSuccessRegion() string {
	res := m.state.Result
	if res == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderSuccess(res.Message))
	b.WriteString("\n\n")
	b.WriteString(fieldLabelStyle.Render("Total leads:"))
	b.WriteString(fmt.Sprintf(" %d\n", res.TotalLeads))
	b.WriteString(fieldLabelStyle.Render("Download:"))
	b.WriteString(" " + linkStyle.Render(res.DownloadURL) + "\n")

	switch {
	case m.downloading:
		b.WriteString("\n" + infoStyle.Render("Downloading "+res.Filename+"..."))
	case m.downloadErr != nil:
		b.WriteString("\n" + renderInlineError(userFacingError(m.downloadErr)))
	case m.savedPath != "":
		b.WriteString("\n" + renderSuccess(fmt.Sprintf("Saved %s (%d bytes)", m.savedPath, m.savedBytes)))
	}
	if m.notice != "" {
		b.WriteString("\n" + mutedStyle.Render(m.notice))
	}

	b.WriteString("\n" + helpStyle.Render("[Ctrl+S] Save file  [Ctrl+Y] Copy link"))
	return b.String()
}
