package output

import (
	"fmt"
	"io"

	"lead-scraper-go/pkg/controller"
	"lead-scraper-go/pkg/scraper"
)

// Console is a controller.View that prints each transition as a line
type Console struct {
	out   io.Writer
	state *controller.StateView
}

// NewConsole creates a console view writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:   out,
		state: controller.NewStateView(nil),
	}
}

// State returns the state the console has rendered so far
func (c *Console) State() controller.UIState {
	return c.state.State()
}

func (c *Console) ShowLoading() {
	c.state.ShowLoading()
	fmt.Fprintf(c.out, "⏳ %s (this may take a while)\n", controller.BusyLabel)
}

func (c *Console) ShowSuccess(res scraper.Success) {
	c.state.ShowSuccess(res)
	fmt.Fprint(c.out, FormatSuccessMessage(res))
}

func (c *Console) ShowError(message string) {
	c.state.ShowError(message)
	fmt.Fprint(c.out, FormatErrorMessage(message))
}

// ResetAffordance has nothing to redraw on a line-oriented terminal.
func (c *Console) ResetAffordance() {
	c.state.ResetAffordance()
}
