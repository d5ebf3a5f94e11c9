package client

import (
	"chat-relay/domain"
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
)

// Printer renders relayed events on the user's terminal.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
}

func NewPrinter(out io.Writer, colours bool) *Printer {
	return &Printer{out: out, colours: colours}
}

func (p *Printer) Print(evt domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := string(evt.Author())
	if p.colours {
		style := color.New(color.FgCyan, color.OpBold)
		if evt.Author() == domain.ServerName {
			style = color.New(color.FgYellow, color.OpBold)
		}
		name = style.Render(name)
	}

	switch evt.Kind() {
	case domain.KindQuit:
		_, _ = fmt.Fprintf(p.out, "%s left\n", name)
	default:
		_, _ = fmt.Fprintf(p.out, "%s said %s\n", name, evt.Body())
	}
}

func (p *Printer) Prompt(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprint(p.out, text)
}
