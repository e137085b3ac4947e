package scripthost

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// ConsolePresenter writes alerts to a terminal, highlighted by category.
type ConsolePresenter struct {
	out   io.Writer
	title *color.Color
	body  *color.Color
}

func NewConsolePresenter(out io.Writer) *ConsolePresenter {
	if out == nil {
		out = os.Stderr
	}
	return &ConsolePresenter{
		out:   out,
		title: color.New(color.FgRed, color.Bold),
		body:  color.New(color.FgWhite),
	}
}

func (p *ConsolePresenter) Present(alert *Alert) error {
	if _, err := p.title.Fprintf(p.out, "[%s] ", alert.Category); err != nil {
		return err
	}
	if _, err := p.body.Fprintln(p.out, alert.Message); err != nil {
		return err
	}
	return nil
}
