// Package display runs the interactive terminal with Bubble Tea: a status
// bar showing the current combination and a prompt pinned to the bottom.
// Everything else is printed above them through the program, so output
// from other goroutines never tears the prompt.
package display

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/recipro/internal/domain"
)

// StatusSource reports the current recipe combination for the status bar.
// *combiner.Session satisfies it.
type StatusSource interface {
	Selection() []domain.SelectedRecipe
	Summary() domain.CombinationSummary
}

// UI owns the terminal while Run is active. The print methods and
// InputChan are safe to use from any goroutine once WaitReady returns.
type UI struct {
	status  StatusSource
	program *tea.Program
	running atomic.Bool

	lines chan string
	ready chan struct{}
}

// NewUI creates the display. Run starts it.
func NewUI(status StatusSource) *UI {
	return &UI{
		status: status,
		lines:  make(chan string, 16),
		ready:  make(chan struct{}),
	}
}

// InputChan delivers each line the user submits.
func (u *UI) InputChan() <-chan string { return u.lines }

// WaitReady blocks until the event loop is up.
func (u *UI) WaitReady() { <-u.ready }

// Println prints above the prompt, or to stdout when the UI is not running.
func (u *UI) Println(a ...interface{}) {
	if u.running.Load() {
		u.program.Println(a...)
		return
	}
	fmt.Println(a...)
}

// Printf is Println with a format. A trailing newline is implied.
func (u *UI) Printf(format string, a ...interface{}) {
	u.Println(fmt.Sprintf(format, a...))
}

func (u *UI) styled(style lipgloss.Style, text string) {
	u.Println(style.Render("  " + text))
}

// PrintTitle prints a heading such as a recipe title.
func (u *UI) PrintTitle(text string) { u.styled(headingStyle, text) }

// PrintLine prints body text.
func (u *UI) PrintLine(text string) { u.styled(bodyStyle, text) }

// PrintHint prints a dimmed line.
func (u *UI) PrintHint(text string) { u.styled(hintStyle, text) }

// PrintBlock prints pre-rendered multi-line text, e.g. a shopping list.
func (u *UI) PrintBlock(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		u.PrintLine(line)
	}
}

func (u *UI) echo(text string) {
	u.Println(promptStyle.Render(strings.TrimSpace(prompt)) + " " + echoStyle.Render(text))
}

// Quit stops the event loop; Run then returns.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// Run blocks until the user quits or Quit is called.
func (u *UI) Run() error {
	m := newModel(u.status, func(line string) {
		u.echo(line)
		u.lines <- line
	})
	m.onReady = func() { close(u.ready) }

	u.program = tea.NewProgram(m)
	u.running.Store(true)
	_, err := u.program.Run()
	u.running.Store(false)
	return err
}

// SelectionLabel renders "Title ×2", omitting a multiplier of one.
func SelectionLabel(r domain.SelectedRecipe) string {
	if r.Multiplier == 1 {
		return r.Title
	}
	return r.Title + " ×" + strconv.FormatFloat(r.Multiplier, 'f', -1, 64)
}
