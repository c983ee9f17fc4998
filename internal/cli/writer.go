package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Colors used for terminal output.
const (
	colorGreen = 42  // key present
	colorRed   = 196 // key missing
	colorCyan  = 117 // names, env vars
	colorDim   = 241 // labels
)

// Writer prints command output. On a terminal markdown is rendered with
// glamour and text is styled; otherwise everything is written plain.
type Writer struct {
	out      io.Writer
	isTTY    bool
	renderer *glamour.TermRenderer
}

// NewWriter creates a Writer. If width is <= 0, defaults to 80.
func NewWriter(out io.Writer, isTTY bool, width int) *Writer {
	if width <= 0 {
		width = 80
	}

	w := &Writer{
		out:   out,
		isTTY: isTTY,
	}

	if isTTY {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(max(width-6, 40)),
		)
		if err == nil {
			w.renderer = r
		}
	}

	return w
}

// Markdown writes a markdown document.
func (w *Writer) Markdown(text string) {
	if w.renderer != nil {
		if rendered, err := w.renderer.Render(text); err == nil {
			fmt.Fprint(w.out, rendered)
			return
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(w.out, text)
}

// Line writes one line of already formatted text.
func (w *Writer) Line(text string) {
	fmt.Fprintln(w.out, text)
}

func (w *Writer) style(color int, text string) string {
	return w.sgr(fmt.Sprintf("38;5;%d", color), text)
}

func (w *Writer) styleBold(color int, text string) string {
	return w.sgr(fmt.Sprintf("1;38;5;%d", color), text)
}

func (w *Writer) dim(text string) string {
	return w.sgr("2", text)
}

// sgr wraps text with an SGR escape sequence on a terminal.
func (w *Writer) sgr(params, text string) string {
	if !w.isTTY {
		return text
	}
	return "\033[" + params + "m" + text + "\033[0m"
}
